package feed

import (
	"sync"

	"whispermap/internal/story"
)

// MaxStories caps the local story list, matching the server's list limit.
const MaxStories = story.ListLimit

// Projection is the client's optimistic copy of server state. It keeps three
// caches (the story list, the selected cluster and the trending list) that
// must agree on every story's aggregate.
type Projection struct {
	mu       sync.RWMutex
	stories  []story.View
	cluster  []story.View
	trending []story.View
}

func NewProjection() *Projection {
	return &Projection{}
}

func (p *Projection) Stories() []story.View { return p.read(func() []story.View { return p.stories }) }

func (p *Projection) Cluster() []story.View { return p.read(func() []story.View { return p.cluster }) }

func (p *Projection) Trending() []story.View { return p.read(func() []story.View { return p.trending }) }

// Story looks id up in the list, then the cluster, then trending.
func (p *Projection) Story(id uint64) (story.View, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, cache := range [][]story.View{p.stories, p.cluster, p.trending} {
		for _, v := range cache {
			if v.ID == id {
				return cloneView(v), true
			}
		}
	}
	return story.View{}, false
}

func (p *Projection) read(pick func() []story.View) []story.View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneViews(pick())
}

// ReplaceStories installs a freshly fetched list. Callers keep the previous
// list on fetch failure by simply not calling it.
func (p *Projection) ReplaceStories(vs []story.View) {
	vs = cloneViews(vs)
	if len(vs) > MaxStories {
		vs = vs[:MaxStories]
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stories = vs
}

// AddStory prepends a broadcast story unless it is already listed.
func (p *Projection) AddStory(v story.View) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.stories {
		if s.ID == v.ID {
			return false
		}
	}

	out := make([]story.View, 0, min(len(p.stories)+1, MaxStories))
	out = append(out, cloneView(v))
	for _, s := range p.stories {
		if len(out) == MaxStories {
			break
		}
		out = append(out, s)
	}
	p.stories = out
	return true
}

func (p *Projection) SetTrending(vs []story.View) {
	vs = cloneViews(vs)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trending = vs
}

// SelectCluster groups the listed stories near story id and keeps the group
// as the cluster cache. It reports false when id is not in the list.
func (p *Projection) SelectCluster(id uint64) ([]story.View, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ref *story.View
	for i := range p.stories {
		if p.stories[i].ID == id {
			ref = &p.stories[i]
			break
		}
	}
	if ref == nil {
		return nil, false
	}

	p.cluster = cloneViews(story.FindNearby(*ref, p.stories))
	return cloneViews(p.cluster), true
}

// ApplyLocal adjusts one type count and the total by delta in every cache,
// flooring both at zero.
func (p *Projection) ApplyLocal(id uint64, t story.ReactionType, delta int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.each(id, func(v *story.View) {
		if v.Reactions == nil {
			v.Reactions = story.NewReactionCounts()
		}
		v.Reactions[t] = max(0, v.Reactions[t]+delta)
		v.Likes = max(0, v.Likes+delta)
	})
}

// ApplyReaction overwrites aggregate fields with the authoritative state and
// reports whether any cache held the story. A state older than the one
// already held for the story is ignored.
func (p *Projection) ApplyReaction(st story.ReactionState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	applied := false
	p.each(st.StoryID, func(v *story.View) {
		if st.Version < v.Version {
			return
		}
		applied = true
		counts := story.NewReactionCounts()
		for k, n := range st.Reactions {
			counts[k] = n
		}
		v.Reactions = counts
		v.Likes = st.TotalReactions
		v.Version = st.Version
	})
	return applied
}

func (p *Projection) each(id uint64, fn func(v *story.View)) {
	for _, cache := range [][]story.View{p.stories, p.cluster, p.trending} {
		for i := range cache {
			if cache[i].ID == id {
				fn(&cache[i])
			}
		}
	}
}

func cloneView(v story.View) story.View {
	if v.Reactions != nil {
		v.Reactions = v.Reactions.Clone()
	}
	return v
}

func cloneViews(vs []story.View) []story.View {
	if vs == nil {
		return nil
	}
	out := make([]story.View, len(vs))
	for i, v := range vs {
		out[i] = cloneView(v)
	}
	return out
}
