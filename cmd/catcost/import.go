package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mlindqvist/catcost/internal/cli"
	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
	"github.com/mlindqvist/catcost/internal/service"
	"github.com/mlindqvist/catcost/internal/trados"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import Trados analysis reports into a project",
		Long: `Import one or more semicolon-delimited Trados analysis exports.

Each parsed file becomes an analysis snapshot under the project; re-importing
a filename replaces its previous snapshot.

Examples:
  # Import a single report
  catcost import --project "Website relaunch" --translator "Maria Svensson" report.csv

  # Import every export in a directory
  catcost import --project "Manuals" --translator "Jonas Weber" ~/exports/*.csv

  # Preview without saving
  catcost import --project "Manuals" --translator "Jonas Weber" --dry-run report.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("project", "p", "", "project to import into (created if missing)")
	cmd.Flags().StringP("translator", "t", "", "translator the project belongs to")
	cmd.Flags().StringP("client", "c", "", "client the project is billed to")
	cmd.Flags().Int("mt-percentage", -1, "MT share of 100% matches for a newly created project (0-100)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("translator")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	projectName, _ := cmd.Flags().GetString("project")
	translatorName, _ := cmd.Flags().GetString("translator")
	clientName, _ := cmd.Flags().GetString("client")
	mtPercentage, _ := cmd.Flags().GetInt("mt-percentage")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	interrupt := cli.NewInterruptHandler(os.Stdout)
	ctx := interrupt.HandleInterrupts(cmd.Context())

	store, _, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	translator, err := requireTranslator(ctx, store, translatorName)
	if err != nil {
		return err
	}
	client, err := requireClient(ctx, store, clientName)
	if err != nil {
		return err
	}

	project, err := findOrCreateProject(ctx, store, projectName, translator.ID, clientIDOf(client), mtPercentage, dryRun)
	if err != nil {
		return err
	}

	slog.Info("Importing analysis reports",
		"file_count", len(allFiles),
		"project", projectName,
		"dry_run", dryRun)

	bar := progressbar.NewOptions(len(allFiles),
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing reports..."),
	)

	parser := trados.NewParser()
	imported, skipped, totalWords := 0, 0, 0

	for _, filePath := range allFiles {
		if ctx.Err() != nil {
			break
		}

		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			skipped++
			_ = bar.Add(1)
			continue
		}

		analyses, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse report", "file", filepath.Base(filePath), "error", err)
			skipped++
			_ = bar.Add(1)
			continue
		}

		for _, fa := range analyses {
			fa.FilePath = filePath
			totalWords += fa.TotalWords()
			if dryRun {
				imported++
				continue
			}
			if err := store.SaveAnalysis(ctx, project.ID, fa); err != nil {
				slog.Error("Failed to save analysis", "file", fa.Filename, "error", err)
				skipped++
				continue
			}
			imported++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Println()

	if dryRun {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Dry run: %d analyses (%d words) parsed, nothing saved", imported, totalWords)))
		return nil
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d analyses (%d words) into %q", imported, totalWords, projectName)))
	if skipped > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d files or rows skipped, see log for details", skipped)))
	}
	return nil
}

// findOrCreateProject returns the named project, creating it on first import.
func findOrCreateProject(ctx context.Context, store service.Storage, name string, translatorID int64, clientID *int64, mtPercentage int, dryRun bool) (*model.Project, error) {
	project, err := store.GetProjectByName(ctx, name)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	project = model.NewProject(name, translatorID)
	project.ClientID = clientID
	if mtPercentage >= 0 {
		project.MTPercentage = mtPercentage
	}
	if dryRun {
		return project, nil
	}

	created, err := store.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	slog.Info("Created project", "name", name, "id", created.ID)
	return created, nil
}
