package story

import "time"

type Category string

const (
	CategoryFear      Category = "Miedo"
	CategoryLove      Category = "Amor"
	CategoryCrime     Category = "Crimen"
	CategoryCuriosity Category = "Curiosidad"
)

var Categories = []Category{CategoryFear, CategoryLove, CategoryCrime, CategoryCuriosity}

func ValidCategory(c string) bool {
	for _, k := range Categories {
		if string(k) == c {
			return true
		}
	}
	return false
}

type ReactionType string

const (
	ReactionShock ReactionType = "shock"
	ReactionSad   ReactionType = "sad"
	ReactionFire  ReactionType = "fire"
	ReactionLaugh ReactionType = "laugh"
	ReactionLove  ReactionType = "love"
)

// ReactionTypes is the fixed set every aggregate carries, in display order.
var ReactionTypes = []ReactionType{ReactionShock, ReactionSad, ReactionFire, ReactionLaugh, ReactionLove}

func ValidReaction(t string) bool {
	for _, k := range ReactionTypes {
		if string(k) == t {
			return true
		}
	}
	return false
}

// Story is an anonymous geo-tagged post.
// Likes caches the number of Reaction rows and is always recomputed from them.
// Version increases with every recount so readers can order aggregate snapshots.
type Story struct {
	ID        uint64    `gorm:"primaryKey"`
	Content   string    `gorm:"type:text;not null"`
	Category  Category  `gorm:"size:32;index;not null"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	Likes     int64     `gorm:"not null;default:0"`
	Version   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index;not null"`
}

// Reaction is one (story, type, session) triple. Rows are inserted and deleted, never updated.
type Reaction struct {
	ID        uint64       `gorm:"primaryKey"`
	StoryID   uint64       `gorm:"not null;uniqueIndex:uq_reactions_triple,priority:1"`
	Type      ReactionType `gorm:"size:16;not null;uniqueIndex:uq_reactions_triple,priority:2"`
	SessionID string       `gorm:"size:128;not null;uniqueIndex:uq_reactions_triple,priority:3"`
	CreatedAt time.Time    `gorm:"not null"`
}

// Report is append-only.
type Report struct {
	ID        uint64    `gorm:"primaryKey"`
	StoryID   uint64    `gorm:"index;not null"`
	Reason    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index;not null"`
}

// ReactionCounts holds a count for every known reaction type.
type ReactionCounts map[ReactionType]int64

func NewReactionCounts() ReactionCounts {
	c := make(ReactionCounts, len(ReactionTypes))
	for _, t := range ReactionTypes {
		c[t] = 0
	}
	return c
}

func (c ReactionCounts) Total() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}

func (c ReactionCounts) Clone() ReactionCounts {
	out := make(ReactionCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// View is the wire representation of a story with its aggregate attached.
type View struct {
	ID        uint64         `json:"id"`
	Content   string         `json:"content"`
	Category  Category       `json:"category"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	CreatedAt time.Time      `json:"createdAt"`
	Likes     int64          `json:"likes"`
	Reactions ReactionCounts `json:"reactions"`
	Version   int64          `json:"version"`
}

func NewView(s Story, counts ReactionCounts) View {
	if counts == nil {
		counts = NewReactionCounts()
	}
	return View{
		ID:        s.ID,
		Content:   s.Content,
		Category:  s.Category,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		CreatedAt: s.CreatedAt,
		Likes:     s.Likes,
		Reactions: counts,
		Version:   s.Version,
	}
}

// ReactionState is the authoritative aggregate after a reaction mutation.
// Broadcasts may arrive out of commit order; a higher Version is newer.
type ReactionState struct {
	StoryID        uint64         `json:"storyId"`
	Reactions      ReactionCounts `json:"reactions"`
	TotalReactions int64          `json:"totalReactions"`
	Version        int64          `json:"version"`
}
