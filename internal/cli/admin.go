package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"whispermap/internal/auth"
)

func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderation helpers",
	}
	cmd.AddCommand(newHashPasswordCommand(rootOpts))
	cmd.AddCommand(newReportsCommand(rootOpts))
	return cmd
}

// newHashPasswordCommand prints a bcrypt hash for ADMIN_PASSWORD_HASH.
func newHashPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for the admin password setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func newReportsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		username string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List recent reports (password read from WHISPER_ADMIN_PASSWORD)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("WHISPER_ADMIN_PASSWORD")
			if password == "" {
				return fmt.Errorf("WHISPER_ADMIN_PASSWORD is not set")
			}

			c := rootOpts.client()
			token, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			reports, err := c.Reports(cmd.Context(), token, limit)
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), reports)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTORY\tWHEN\tREASON")
			for _, r := range reports {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", r.ID, r.StoryID, r.CreatedAt.Format("2006-01-02 15:04"), preview(r.Reason))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "admin", "admin username")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of reports")
	return cmd
}
