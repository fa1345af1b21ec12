package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"whispermap/internal/story"
)

const previewLen = 60

func (o *RootOptions) printStories(w io.Writer, vs []story.View) error {
	if o.Format == "json" {
		return writeJSON(w, vs)
	}
	if len(vs) == 0 {
		_, err := fmt.Fprintln(w, "no stories")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tLIKES\tLAT,LON\tCONTENT")
	for _, v := range vs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.5f,%.5f\t%s\n", v.ID, v.Category, v.Likes, v.Latitude, v.Longitude, preview(v.Content))
	}
	return tw.Flush()
}

func (o *RootOptions) printStory(w io.Writer, v story.View) error {
	if o.Format == "json" {
		return writeJSON(w, v)
	}
	fmt.Fprintf(w, "#%d [%s] %.5f,%.5f %s\n", v.ID, v.Category, v.Latitude, v.Longitude, v.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(w, v.Content)
	_, err := fmt.Fprintf(w, "likes %d  %s\n", v.Likes, formatCounts(v.Reactions))
	return err
}

func (o *RootOptions) printReaction(w io.Writer, st story.ReactionState, held []story.ReactionType) error {
	if o.Format == "json" {
		return writeJSON(w, st)
	}
	names := make([]string, len(held))
	for i, t := range held {
		names[i] = string(t)
	}
	_, err := fmt.Fprintf(w, "story %d: total %d  %s  (yours: %s)\n",
		st.StoryID, st.TotalReactions, formatCounts(st.Reactions), strings.Join(names, ","))
	return err
}

func formatCounts(c story.ReactionCounts) string {
	parts := make([]string, 0, len(story.ReactionTypes))
	for _, t := range story.ReactionTypes {
		parts = append(parts, fmt.Sprintf("%s=%d", t, c[t]))
	}
	return strings.Join(parts, " ")
}

func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen-1]) + "…"
}
