package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"whispermap/internal/story"
)

// NewReactCommand toggles one of this session's reactions on a story.
func NewReactCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "react <id> <shock|sad|fire|laugh|love>",
		Short:     "Toggle a reaction on a story",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"shock", "sad", "fire", "laugh", "love"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !story.ValidReaction(args[1]) {
				return fmt.Errorf("unknown reaction %q", args[1])
			}
			c, err := rootOpts.controller()
			if err != nil {
				return err
			}
			t := story.ReactionType(args[1])
			st, err := c.React(cmd.Context(), id, t)
			if err != nil {
				return err
			}
			return rootOpts.printReaction(cmd.OutOrStdout(), st, c.State.Ledger.Types(id))
		},
	}
}

func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <id> <reason>",
		Short: "Report a story to the moderators",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			reportID, err := rootOpts.client().Report(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]uint64{"reportId": reportID})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "report %d received, thank you\n", reportID)
			return err
		},
	}
}
