package feed

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whispermap/internal/story"
)

func TestLedgerToggleAndSet(t *testing.T) {
	l := NewLedger()

	assert.True(t, l.Toggle(1, story.ReactionFire))
	assert.True(t, l.Has(1, story.ReactionFire))
	assert.True(t, l.Toggle(1, story.ReactionLove))
	assert.Equal(t, []story.ReactionType{story.ReactionFire, story.ReactionLove}, l.Types(1))

	assert.False(t, l.Toggle(1, story.ReactionFire))
	assert.False(t, l.Has(1, story.ReactionFire))
	assert.True(t, l.Has(1, story.ReactionLove))

	l.Set(1, story.ReactionLove, false)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Types(1))
}

func TestLedgerSaveLoad(t *testing.T) {
	l := NewLedger()
	l.Set(7, story.ReactionSad, true)
	l.Set(7, story.ReactionShock, true)
	l.Set(9, story.ReactionLaugh, true)

	var buf bytes.Buffer
	require.NoError(t, l.Save(&buf))

	got := NewLedger()
	require.NoError(t, got.Load(&buf))
	assert.Equal(t, []story.ReactionType{story.ReactionShock, story.ReactionSad}, got.Types(7))
	assert.True(t, got.Has(9, story.ReactionLaugh))
	assert.Equal(t, 2, got.Len())
}

func TestLedgerDropsUnknownTypes(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.UnmarshalJSON([]byte(`{"3":["fire","angry"],"4":["meh"]}`)))
	assert.Equal(t, []story.ReactionType{story.ReactionFire}, l.Types(3))
	assert.Equal(t, 1, l.Len())
}

func TestStateMissingFileStartsFreshSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	st, err := LoadState(path)
	require.NoError(t, err)
	_, err = uuid.Parse(st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Ledger.Len())

	st.Ledger.Set(5, story.ReactionFire, true)
	require.NoError(t, st.Save(path))

	again, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, st.SessionID, again.SessionID)
	assert.True(t, again.Ledger.Has(5, story.ReactionFire))
}
