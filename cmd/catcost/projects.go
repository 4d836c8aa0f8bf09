package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mlindqvist/catcost/internal/cli"
	"github.com/mlindqvist/catcost/internal/model"
)

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage imported projects",
	}

	cmd.AddCommand(projectsListCmd())
	cmd.AddCommand(projectsShowCmd())
	cmd.AddCommand(projectsDeleteCmd())

	return cmd
}

func projectsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE:  runProjectsList,
	}

	cmd.Flags().StringP("translator", "t", "", "filter by translator")

	return cmd
}

func runProjectsList(cmd *cobra.Command, _ []string) error {
	translatorName, _ := cmd.Flags().GetString("translator")

	ctx := cmd.Context()
	store, _, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var translatorID *int64
	if translatorName != "" {
		translator, err := requireTranslator(ctx, store, translatorName)
		if err != nil {
			return err
		}
		translatorID = &translator.ID
	}

	projects, err := store.ListProjects(ctx, translatorID)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No projects yet. Import reports with: catcost import"))
		return nil
	}

	translators, err := store.ListTranslators(ctx)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(translators))
	for _, t := range translators {
		names[t.ID] = t.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, cli.TableHeaderStyle.Render("ID\tNAME\tTRANSLATOR\tPAIR\tMT%\tCREATED"))
	for _, p := range projects {
		pair := p.LanguagePairCode()
		if p.SourceLanguage == "" || p.TargetLanguage == "" {
			pair = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.Name, names[p.TranslatorID], pair, p.MTPercentage,
			p.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func projectsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a project and its imported files",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectsShow,
	}
}

func runProjectsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, _, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	project, err := store.GetProjectByName(ctx, args[0])
	if err != nil {
		return err
	}
	translator, err := store.GetTranslator(ctx, project.TranslatorID)
	if err != nil {
		return err
	}
	analyses, err := store.GetAnalyses(ctx, project.ID)
	if err != nil {
		return err
	}

	var info strings.Builder
	fmt.Fprintf(&info, "Translator:    %s\n", translator.DisplayName())
	if project.ClientID != nil {
		client, err := store.GetClient(ctx, *project.ClientID)
		if err != nil {
			return err
		}
		fmt.Fprintf(&info, "Client:        %s\n", client.Name)
	}
	if project.SourceLanguage != "" && project.TargetLanguage != "" {
		fmt.Fprintf(&info, "Language pair: %s\n", project.LanguagePairCode())
	}
	fmt.Fprintf(&info, "MT share:      %d%% of 100%% matches\n", project.MTPercentage)
	fmt.Fprintf(&info, "Created:       %s", project.CreatedAt.Format("2006-01-02"))
	fmt.Println(cli.RenderBox(project.Name, info.String()))

	if len(analyses) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No files imported yet."))
		return nil
	}

	pa := model.NewProjectAnalysis(project.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, cli.TableHeaderStyle.Render("FILE\tPAIR\tSEGMENTS\tWORDS"))
	for i := range analyses {
		fa := &analyses[i]
		pa.AddFile(fa)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
			fa.Filename, fa.LanguagePairCode(), fa.TotalSegments(), fa.TotalWords())
	}
	fmt.Fprintf(w, "%s\t\t%d\t%d\n",
		cli.BoldStyle.Render(fmt.Sprintf("Total (%d files)", pa.FileCount())),
		pa.TotalSegments(), pa.TotalWords())
	return w.Flush()
}

func projectsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a project and its imported analyses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			project, err := store.GetProjectByName(ctx, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteProject(ctx, project.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted project %s", project.Name)))
			return nil
		},
	}
}
