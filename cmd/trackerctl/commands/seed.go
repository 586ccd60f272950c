package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/seed"
	"altis.app/tracker/internal/service"
)

func newSeedCommand() *cobra.Command {
	var opts seed.Options

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the Acme demo dataset",
		Long:  "Deletes every organization, with their users, issues, comments and activities, then loads demo data.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := connect(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			result, err := seed.Run(ctx, service.NewTxRunner(database), auth.NewBcryptHasher(auth.DefaultCost), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded %s with %d issues and %d comments\n", result.Organization.Name, result.Issues, result.Comments)
			fmt.Fprintln(out, "Users:")
			for _, u := range result.Users {
				fmt.Fprintf(out, "  %s / %s\n", u.Email, seed.DemoPassword)
			}
			return nil
		},
	}

	seedCmd.Flags().IntVar(&opts.Issues, "issues", 30, "number of issues to create")
	seedCmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")
	return seedCmd
}
