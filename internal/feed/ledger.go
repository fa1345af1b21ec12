package feed

import (
	"io"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"whispermap/internal/story"
)

// Ledger records which reaction types this session holds on each story.
// It only decides toggle direction locally; counts always come from the server.
type Ledger struct {
	mu sync.RWMutex
	m  map[uint64]map[story.ReactionType]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{m: make(map[uint64]map[story.ReactionType]struct{})}
}

func (l *Ledger) Has(id uint64, t story.ReactionType) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.m[id][t]
	return ok
}

// Set records presence (or absence) of t on story id.
func (l *Ledger) Set(id uint64, t story.ReactionType, present bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set(id, t, present)
}

// Toggle flips t on story id and returns whether it is now held.
func (l *Ledger) Toggle(id uint64, t story.ReactionType) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, had := l.m[id][t]
	l.set(id, t, !had)
	return !had
}

func (l *Ledger) set(id uint64, t story.ReactionType, present bool) {
	if present {
		if l.m[id] == nil {
			l.m[id] = make(map[story.ReactionType]struct{})
		}
		l.m[id][t] = struct{}{}
		return
	}
	delete(l.m[id], t)
	if len(l.m[id]) == 0 {
		delete(l.m, id)
	}
}

// Types returns the held types for id in canonical order.
func (l *Ledger) Types(id uint64) []story.ReactionType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]story.ReactionType, 0, len(l.m[id]))
	for _, t := range story.ReactionTypes {
		if _, ok := l.m[id][t]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.m)
}

func (l *Ledger) snapshot() map[uint64][]story.ReactionType {
	l.mu.RLock()
	ids := make([]uint64, 0, len(l.m))
	for id := range l.m {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make(map[uint64][]story.ReactionType, len(ids))
	for _, id := range ids {
		if ts := l.Types(id); len(ts) > 0 {
			out[id] = ts
		}
	}
	return out
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.snapshot())
}

// UnmarshalJSON replaces the ledger contents. Unknown reaction types are dropped.
func (l *Ledger) UnmarshalJSON(b []byte) error {
	var raw map[uint64][]story.ReactionType
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	m := make(map[uint64]map[story.ReactionType]struct{}, len(raw))
	for id, ts := range raw {
		for _, t := range ts {
			if !story.ValidReaction(string(t)) {
				continue
			}
			if m[id] == nil {
				m[id] = make(map[story.ReactionType]struct{})
			}
			m[id][t] = struct{}{}
		}
	}

	l.mu.Lock()
	l.m = m
	l.mu.Unlock()
	return nil
}

func (l *Ledger) Load(r io.Reader) error {
	return json.NewDecoder(r).Decode(l)
}

func (l *Ledger) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(l)
}
