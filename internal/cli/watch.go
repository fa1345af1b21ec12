package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"whispermap/internal/feed"
)

// NewWatchCommand keeps a live projection of the feed and prints every row
// a broadcast changes, until interrupted.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live stories and reactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := rootOpts.controller()
			if err != nil {
				return err
			}
			c.Category = category

			p := &changePrinter{w: cmd.OutOrStdout(), opts: rootOpts, view: c.View}
			err = c.Watch(ctx, p.print)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only follow new stories of this category")
	return cmd
}

type changePrinter struct {
	w    io.Writer
	opts *RootOptions
	view *feed.Projection
}

func (p *changePrinter) print(ch feed.Change) {
	switch ch.Kind {
	case feed.ChangeConnected:
		stories, trending := p.view.Stories(), p.view.Trending()
		if p.opts.Format == "json" {
			_ = writeJSON(p.w, map[string]any{"type": "connected", "stories": len(stories), "trending": trending})
			return
		}
		fmt.Fprintf(p.w, "connected, %d stories loaded\n", len(stories))
		if len(trending) > 0 {
			fmt.Fprintln(p.w, "trending:")
			_ = p.opts.printStories(p.w, trending)
		}

	case feed.ChangeNewStory, feed.ChangeReaction:
		v, ok := p.view.Story(ch.StoryID)
		if !ok {
			return
		}
		kind := "new-story"
		if ch.Kind == feed.ChangeReaction {
			kind = "story-reaction"
		}
		if p.opts.Format == "json" {
			_ = writeJSON(p.w, map[string]any{"type": kind, "data": v})
			return
		}
		if ch.Kind == feed.ChangeNewStory {
			fmt.Fprintf(p.w, "new story #%d [%s] %s\n", v.ID, v.Category, preview(v.Content))
			return
		}
		fmt.Fprintf(p.w, "story #%d now has %d reactions: %s\n", v.ID, v.Likes, formatCounts(v.Reactions))
	}
}
