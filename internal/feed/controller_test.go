package feed

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whispermap/internal/apiclient"
	"whispermap/internal/story"
)

type fakeAPI struct {
	mu      sync.Mutex
	rows    map[uint64]map[story.ReactionType]bool
	fail    error
	calls   []string
	list    []story.View
	listErr error
	events  func(h apiclient.Handler)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{rows: map[uint64]map[story.ReactionType]bool{}}
}

func (f *fakeAPI) state(id uint64) story.ReactionState {
	counts := story.NewReactionCounts()
	for t, on := range f.rows[id] {
		if on {
			counts[t]++
		}
	}
	return story.ReactionState{StoryID: id, Reactions: counts, TotalReactions: counts.Total()}
}

func (f *fakeAPI) mutate(op string, id uint64, t story.ReactionType, on bool) (story.ReactionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.fail != nil {
		return story.ReactionState{}, f.fail
	}
	if f.rows[id] == nil {
		f.rows[id] = map[story.ReactionType]bool{}
	}
	f.rows[id][t] = on
	return f.state(id), nil
}

func (f *fakeAPI) React(_ context.Context, id uint64, t story.ReactionType, _ string) (story.ReactionState, error) {
	return f.mutate("react", id, t, true)
}

func (f *fakeAPI) Unreact(_ context.Context, id uint64, t story.ReactionType, _ string) (story.ReactionState, error) {
	return f.mutate("unreact", id, t, false)
}

func (f *fakeAPI) ListStories(context.Context, string) ([]story.View, error) {
	return f.list, f.listErr
}

func (f *fakeAPI) Trending(context.Context) ([]story.View, error) {
	return nil, nil
}

func (f *fakeAPI) Subscribe(ctx context.Context, h apiclient.Handler) error {
	h.Connected()
	if f.events != nil {
		f.events(h)
	}
	return ctx.Err()
}

func newController(t *testing.T, api *fakeAPI) *Controller {
	t.Helper()
	c := NewController(api, NewState(), filepath.Join(t.TempDir(), "state.json"))
	c.View.ReplaceStories([]story.View{view(1, 0, 0, 0)})
	return c
}

func TestReactAddsThenRemoves(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api)
	ctx := context.Background()

	st, err := c.React(ctx, 1, story.ReactionFire)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalReactions)
	assert.True(t, c.State.Ledger.Has(1, story.ReactionFire))
	assert.Equal(t, int64(1), c.View.Stories()[0].Likes)

	st, err = c.React(ctx, 1, story.ReactionFire)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.TotalReactions)
	assert.False(t, c.State.Ledger.Has(1, story.ReactionFire))
	assert.Equal(t, int64(0), c.View.Stories()[0].Likes)

	assert.Equal(t, []string{"react", "unreact"}, api.calls)

	persisted, err := LoadState(c.StatePath)
	require.NoError(t, err)
	assert.Equal(t, c.State.SessionID, persisted.SessionID)
	assert.False(t, persisted.Ledger.Has(1, story.ReactionFire))
}

func TestReactRollsBackOnFailure(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api)
	api.fail = errors.New("boom")

	_, err := c.React(context.Background(), 1, story.ReactionLove)
	require.EqualError(t, err, "boom")

	assert.False(t, c.State.Ledger.Has(1, story.ReactionLove))
	v := c.View.Stories()[0]
	assert.Equal(t, int64(0), v.Likes)
	assert.Equal(t, int64(0), v.Reactions[story.ReactionLove])

	persisted, err := LoadState(c.StatePath)
	require.NoError(t, err)
	assert.False(t, persisted.Ledger.Has(1, story.ReactionLove))
}

func TestReactRollbackRestoresHeldReaction(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api)
	_, err := c.React(context.Background(), 1, story.ReactionSad)
	require.NoError(t, err)

	api.fail = errors.New("offline")
	_, err = c.React(context.Background(), 1, story.ReactionSad)
	require.Error(t, err)

	assert.True(t, c.State.Ledger.Has(1, story.ReactionSad))
	assert.Equal(t, int64(1), c.View.Stories()[0].Likes)
}

func TestReactRejectsUnknownType(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api)

	_, err := c.React(context.Background(), 1, story.ReactionType("angry"))
	assert.ErrorIs(t, err, story.ErrInvalidReaction)
	assert.Empty(t, api.calls)
}

func TestRefreshKeepsListOnFailure(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api)
	api.listErr = errors.New("unavailable")

	require.Error(t, c.Refresh(context.Background()))
	require.Len(t, c.View.Stories(), 1)

	api.listErr = nil
	api.list = []story.View{view(2, 0, 0, 0), view(3, 0, 0, 0)}
	require.NoError(t, c.Refresh(context.Background()))
	assert.Len(t, c.View.Stories(), 2)
}

func TestWatchAppliesBroadcasts(t *testing.T) {
	api := newFakeAPI()
	api.list = []story.View{view(1, 0, 0, 0)}
	api.events = func(h apiclient.Handler) {
		h.NewStory(view(2, 0, 0, 0))
		h.NewStory(view(2, 0, 0, 0))
		h.Reaction(story.ReactionState{StoryID: 1, Reactions: story.ReactionCounts{story.ReactionFire: 3}, TotalReactions: 3, Version: 2})
		h.Reaction(story.ReactionState{StoryID: 1, Reactions: story.ReactionCounts{story.ReactionFire: 1}, TotalReactions: 1, Version: 1})
		h.Reaction(story.ReactionState{StoryID: 77, TotalReactions: 1, Version: 1})
	}
	c := newController(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var changes []Change
	err := c.Watch(ctx, func(ch Change) { changes = append(changes, ch) })
	assert.ErrorIs(t, err, context.Canceled)

	got := c.View.Stories()
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].Likes)
	assert.Equal(t, []Change{
		{Kind: ChangeConnected},
		{Kind: ChangeNewStory, StoryID: 2},
		{Kind: ChangeReaction, StoryID: 1},
	}, changes)
}

func TestWatchSkipsOtherCategories(t *testing.T) {
	api := newFakeAPI()
	api.events = func(h apiclient.Handler) {
		v := view(5, 0, 0, 0)
		v.Category = story.CategoryLove
		h.NewStory(v)
	}
	c := newController(t, api)
	c.Category = string(story.CategoryCrime)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var changes []Change
	_ = c.Watch(ctx, func(ch Change) { changes = append(changes, ch) })
	assert.Equal(t, []Change{{Kind: ChangeConnected}}, changes)
}
