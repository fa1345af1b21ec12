// Package cli implements the whisperctl command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"whispermap/internal/apiclient"
	"whispermap/internal/feed"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL    string
	StatePath string
	Format    string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "whisperctl",
		Short:         "Command-line client for whispermap",
		Long:          "Read, post and react to anonymous geo-tagged stories from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", envOr("WHISPER_API_URL", "http://localhost:3000"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.StatePath, "state", envOr("WHISPER_STATE", defaultStatePath()), "session state file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewTrendingCommand(opts))
	cmd.AddCommand(NewPostCommand(opts))
	cmd.AddCommand(NewNearbyCommand(opts))
	cmd.AddCommand(NewReactCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewAdminCommand(opts))

	return cmd
}

func (o *RootOptions) client() *apiclient.Client {
	return apiclient.New(o.APIURL)
}

func (o *RootOptions) controller() (*feed.Controller, error) {
	st, err := feed.LoadState(o.StatePath)
	if err != nil {
		return nil, err
	}
	return feed.NewController(o.client(), st, o.StatePath), nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".whispermap-state.json"
	}
	return filepath.Join(dir, "whispermap", "state.json")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
