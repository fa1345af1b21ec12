package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"whispermap/internal/apiclient"
	"whispermap/internal/story"
)

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the newest stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := rootOpts.client().ListStories(cmd.Context(), category)
			if err != nil {
				return err
			}
			return rootOpts.printStories(cmd.OutOrStdout(), vs)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category (Miedo, Amor, Crimen, Curiosidad)")
	return cmd
}

func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one story with its reactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v, err := rootOpts.client().GetStory(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rootOpts.printStory(cmd.OutOrStdout(), v)
		},
	}
}

func NewTrendingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "List this week's most reacted stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := rootOpts.client().Trending(cmd.Context())
			if err != nil {
				return err
			}
			return rootOpts.printStories(cmd.OutOrStdout(), vs)
		},
	}
}

func NewPostCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		category string
		lat, lon float64
	)

	cmd := &cobra.Command{
		Use:   "post <content>",
		Short: "Share an anonymous story at a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := rootOpts.client().CreateStory(cmd.Context(), apiclient.NewStory{
				Content:   args[0],
				Category:  story.Category(category),
				Latitude:  lat,
				Longitude: lon,
			})
			if err != nil {
				return err
			}
			return rootOpts.printStory(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", string(story.CategoryCuriosity), "story category")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

// NewNearbyCommand prints the cluster around a story, as a map popup would.
func NewNearbyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "nearby <id>",
		Short: "List stories within a few meters of a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := rootOpts.controller()
			if err != nil {
				return err
			}
			if err := c.Refresh(cmd.Context()); err != nil {
				return err
			}
			cluster, ok := c.View.SelectCluster(id)
			if !ok {
				return fmt.Errorf("story %d is not among the latest stories", id)
			}
			return rootOpts.printStories(cmd.OutOrStdout(), cluster)
		},
	}
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid story id %q", s)
	}
	return id, nil
}
