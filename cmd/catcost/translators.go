package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mlindqvist/catcost/internal/cli"
	"github.com/mlindqvist/catcost/internal/model"
)

func translatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translators",
		Short: "Manage translators",
	}

	cmd.AddCommand(translatorsAddCmd())
	cmd.AddCommand(translatorsListCmd())
	cmd.AddCommand(translatorsDeleteCmd())

	return cmd
}

func translatorsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a translator",
		Args:  cobra.ExactArgs(1),
		RunE:  runTranslatorsAdd,
	}

	cmd.Flags().String("email", "", "contact email")
	cmd.Flags().String("company", "", "company name")

	return cmd
}

func runTranslatorsAdd(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	company, _ := cmd.Flags().GetString("company")

	ctx := cmd.Context()
	store, _, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	translator := &model.Translator{
		Name:     args[0],
		Email:    email,
		Company:  company,
		IsActive: true,
	}
	created, err := store.CreateTranslator(ctx, translator)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added translator %s (id %d)", created.DisplayName(), created.ID)))
	return nil
}

func translatorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List translators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, _, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			translators, err := store.ListTranslators(ctx)
			if err != nil {
				return err
			}
			if len(translators) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No translators yet. Add one with: catcost translators add <name>"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, cli.TableHeaderStyle.Render("ID\tNAME\tEMAIL\tCOMPANY"))
			for _, t := range translators {
				email := t.Email
				if email == "" {
					email = "-"
				}
				company := t.Company
				if company == "" {
					company = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Name, email, company)
			}
			return w.Flush()
		},
	}
}

func translatorsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a translator and all their rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			translator, err := requireTranslator(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteTranslator(ctx, translator.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted translator %s", translator.Name)))
			return nil
		},
	}
}
