package feed

import (
	"context"

	"whispermap/internal/apiclient"
	"whispermap/internal/logging"
	"whispermap/internal/story"
)

// API is the subset of the HTTP client the controller drives.
type API interface {
	ListStories(ctx context.Context, category string) ([]story.View, error)
	Trending(ctx context.Context) ([]story.View, error)
	React(ctx context.Context, id uint64, t story.ReactionType, session string) (story.ReactionState, error)
	Unreact(ctx context.Context, id uint64, t story.ReactionType, session string) (story.ReactionState, error)
	Subscribe(ctx context.Context, h apiclient.Handler) error
}

// Controller applies user actions optimistically and reconciles with the server.
type Controller struct {
	API   API
	State *State
	// StatePath is where State is persisted after every ledger change. Empty disables persistence.
	StatePath string
	View      *Projection
	Category  string
}

func NewController(api API, st *State, statePath string) *Controller {
	return &Controller{API: api, State: st, StatePath: statePath, View: NewProjection()}
}

// React toggles reaction t on story id for this session. The projection and
// ledger change before the request; if it fails both are reverted and the
// error is returned. A successful reply replaces the optimistic aggregate.
func (c *Controller) React(ctx context.Context, id uint64, t story.ReactionType) (story.ReactionState, error) {
	if !story.ValidReaction(string(t)) {
		return story.ReactionState{}, story.ErrInvalidReaction
	}

	present := c.State.Ledger.Toggle(id, t)
	delta := int64(1)
	if !present {
		delta = -1
	}
	c.View.ApplyLocal(id, t, delta)
	c.persist()

	var (
		st  story.ReactionState
		err error
	)
	if present {
		st, err = c.API.React(ctx, id, t, c.State.SessionID)
	} else {
		st, err = c.API.Unreact(ctx, id, t, c.State.SessionID)
	}
	if err != nil {
		c.View.ApplyLocal(id, t, -delta)
		c.State.Ledger.Set(id, t, !present)
		c.persist()
		return story.ReactionState{}, err
	}

	c.View.ApplyReaction(st)
	return st, nil
}

// Refresh fetches the story list. On failure the previous list is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	vs, err := c.API.ListStories(ctx, c.Category)
	if err != nil {
		return err
	}
	c.View.ReplaceStories(vs)
	return nil
}

func (c *Controller) RefreshTrending(ctx context.Context) error {
	vs, err := c.API.Trending(ctx)
	if err != nil {
		return err
	}
	c.View.SetTrending(vs)
	return nil
}

// ChangeKind says what moved the projection.
type ChangeKind int

const (
	ChangeConnected ChangeKind = iota + 1
	ChangeNewStory
	ChangeReaction
)

// Change is reported after the projection has absorbed an event.
type Change struct {
	Kind    ChangeKind
	StoryID uint64
}

// Watch applies broadcast events to the projection until ctx is done. Every
// (re)connect triggers a full refresh since missed events are not replayed.
// onChange, if set, runs after each event that altered the projection.
func (c *Controller) Watch(ctx context.Context, onChange func(Change)) error {
	return c.API.Subscribe(ctx, &watcher{ctx: ctx, c: c, onChange: onChange})
}

func (c *Controller) persist() {
	if c.StatePath == "" {
		return
	}
	if err := c.State.Save(c.StatePath); err != nil {
		logging.Warn().Err(err).Str("path", c.StatePath).Msg("save client state")
	}
}

type watcher struct {
	ctx      context.Context
	c        *Controller
	onChange func(Change)
}

func (w *watcher) Connected() {
	if err := w.c.Refresh(w.ctx); err != nil {
		logging.Warn().Err(err).Msg("refresh after connect")
	}
	if err := w.c.RefreshTrending(w.ctx); err != nil {
		logging.Warn().Err(err).Msg("refresh trending after connect")
	}
	w.notify(Change{Kind: ChangeConnected})
}

func (w *watcher) NewStory(v story.View) {
	if w.c.Category != "" && string(v.Category) != w.c.Category {
		return
	}
	if w.c.View.AddStory(v) {
		w.notify(Change{Kind: ChangeNewStory, StoryID: v.ID})
	}
}

func (w *watcher) Reaction(st story.ReactionState) {
	if w.c.View.ApplyReaction(st) {
		w.notify(Change{Kind: ChangeReaction, StoryID: st.StoryID})
	}
}

func (w *watcher) notify(ch Change) {
	if w.onChange != nil {
		w.onChange(ch)
	}
}
