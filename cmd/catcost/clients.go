package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mlindqvist/catcost/internal/cli"
	"github.com/mlindqvist/catcost/internal/model"
)

func clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage clients",
	}

	cmd.AddCommand(clientsAddCmd())
	cmd.AddCommand(clientsListCmd())
	cmd.AddCommand(clientsDeleteCmd())

	return cmd
}

func clientsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, _ := cmd.Flags().GetString("contact")

			ctx := cmd.Context()
			store, _, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			client := &model.Client{Name: args[0], Contact: contact, IsActive: true}
			created, err := store.CreateClient(ctx, client)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added client %s (id %d)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().String("contact", "", "contact person or email")

	return cmd
}

func clientsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, _, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			clients, err := store.ListClients(ctx)
			if err != nil {
				return err
			}
			if len(clients) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No clients yet. Add one with: catcost clients add <name>"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, cli.TableHeaderStyle.Render("ID\tNAME\tCONTACT"))
			for _, c := range clients {
				contact := c.Contact
				if contact == "" {
					contact = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, contact)
			}
			return w.Flush()
		},
	}
}

func clientsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a client and its override rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			client, err := requireClient(ctx, store, args[0])
			if err != nil {
				return err
			}
			if client == nil {
				return fmt.Errorf("client name is required")
			}
			if err := store.DeleteClient(ctx, client.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted client %s", client.Name)))
			return nil
		},
	}
}
