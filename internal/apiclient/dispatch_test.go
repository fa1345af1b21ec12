package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whispermap/internal/story"
)

type countingHandler struct {
	stories, reactions int
	last               story.ReactionState
}

func (h *countingHandler) Connected() {}

func (h *countingHandler) NewStory(story.View) { h.stories++ }

func (h *countingHandler) Reaction(st story.ReactionState) {
	h.reactions++
	h.last = st
}

func TestDispatch(t *testing.T) {
	h := &countingHandler{}

	require.NoError(t, dispatch([]byte(`{"type":"new-story","data":{"id":1,"content":"x"}}`), h))
	require.NoError(t, dispatch([]byte(`{"type":"story-reaction","data":{"storyId":1,"reactions":{"fire":2},"totalReactions":2}}`), h))
	require.NoError(t, dispatch([]byte(`{"type":"pong"}`), h))

	assert.Equal(t, 1, h.stories)
	assert.Equal(t, 1, h.reactions)
	assert.Equal(t, int64(2), h.last.Reactions[story.ReactionFire])

	assert.ErrorIs(t, dispatch([]byte(`{"type":"mystery"}`), h), errUnknownEvent)
	assert.Error(t, dispatch([]byte(`not json`), h))
}
