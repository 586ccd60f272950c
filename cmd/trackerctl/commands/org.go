package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"altis.app/tracker/internal/service"
	"altis.app/tracker/internal/store"
)

func newOrgCommand() *cobra.Command {
	orgCmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organizations",
	}
	orgCmd.AddCommand(newOrgCreateCommand())
	orgCmd.AddCommand(newOrgListCommand())
	return orgCmd
}

func newOrgCreateCommand() *cobra.Command {
	var name, slug string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := connect(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			var slugArg *string
			if slug != "" {
				slugArg = &slug
			}

			orgs := service.NewOrganizationService(store.NewStores(database.Queries()).Organizations())
			org, err := orgs.Create(ctx, name, slugArg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", org.ID, org.Slug, org.Name)
			return nil
		},
	}

	createCmd.Flags().StringVar(&name, "name", "", "organization name")
	createCmd.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the name when empty)")
	_ = createCmd.MarkFlagRequired("name")
	return createCmd
}

func newOrgListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := connect(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			orgs, err := store.NewStores(database.Queries()).Organizations().List(ctx)
			if err != nil {
				return err
			}
			for _, org := range orgs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", org.ID, org.Slug, org.Name)
			}
			return nil
		},
	}
}
