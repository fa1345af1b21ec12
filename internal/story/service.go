package story

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound        = errors.New("story not found")
	ErrInvalidReaction = errors.New("invalid reaction type")
	ErrInvalidCategory = errors.New("invalid category")
	ErrBannedContent   = errors.New("content contains banned words")
)

const (
	ListLimit     = 100
	TrendingLimit = 10
	TrendingSince = 7 * 24 * time.Hour
)

// Publisher receives every committed mutation. The service is its only caller.
type Publisher interface {
	PublishNewStory(v View)
	PublishReaction(st ReactionState)
}

type Service struct {
	DB  *gorm.DB
	Pub Publisher
	// Now defaults to time.Now.
	Now func() time.Time
}

type CreateInput struct {
	Content   string
	Category  Category
	Latitude  float64
	Longitude float64
}

type ReactionInput struct {
	StoryID   uint64
	Type      ReactionType
	SessionID string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	if !ValidCategory(string(in.Category)) {
		return View{}, ErrInvalidCategory
	}
	content := Sanitize(in.Content)
	if ContainsBannedWords(content) {
		return View{}, ErrBannedContent
	}

	st := Story{
		Content:   content,
		Category:  in.Category,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: s.now(),
	}
	if err := s.DB.WithContext(ctx).Create(&st).Error; err != nil {
		return View{}, fmt.Errorf("insert story: %w", err)
	}

	v := NewView(st, nil)
	if s.Pub != nil {
		s.Pub.PublishNewStory(v)
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (View, error) {
	var st Story
	if err := s.DB.WithContext(ctx).First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	counts, err := s.Counts(ctx, []uint64{id})
	if err != nil {
		return View{}, err
	}
	return NewView(st, counts[id]), nil
}

// List returns the newest stories, optionally restricted to one category.
func (s *Service) List(ctx context.Context, category string) ([]View, error) {
	q := s.DB.WithContext(ctx).Model(&Story{})
	if category != "" {
		if !ValidCategory(category) {
			return nil, ErrInvalidCategory
		}
		q = q.Where("category = ?", category)
	}

	var rows []Story
	if err := q.Order("created_at desc, id desc").Limit(ListLimit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.withCounts(ctx, rows)
}

// Trending returns stories from the last seven days with at least one reaction,
// most reacted first.
func (s *Service) Trending(ctx context.Context) ([]View, error) {
	since := s.now().Add(-TrendingSince)

	var rows []Story
	if err := s.DB.WithContext(ctx).
		Where("created_at >= ? AND likes > 0", since).
		Order("likes desc, id desc").
		Limit(TrendingLimit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.withCounts(ctx, rows)
}

func (s *Service) withCounts(ctx context.Context, rows []Story) ([]View, error) {
	ids := make([]uint64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	counts, err := s.Counts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewView(r, counts[r.ID]))
	}
	return out, nil
}

type typeCount struct {
	StoryID uint64
	Type    ReactionType
	Count   int64
}

// Counts aggregates reaction rows per story and type. Every requested id is
// present in the result with all reaction types, zeros included.
func (s *Service) Counts(ctx context.Context, ids []uint64) (map[uint64]ReactionCounts, error) {
	return countReactions(s.DB.WithContext(ctx), ids)
}

func countReactions(db *gorm.DB, ids []uint64) (map[uint64]ReactionCounts, error) {
	out := make(map[uint64]ReactionCounts, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	for _, id := range ids {
		out[id] = NewReactionCounts()
	}

	var rows []typeCount
	if err := db.Model(&Reaction{}).
		Select("story_id, type, count(*) as count").
		Where("story_id IN ?", ids).
		Group("story_id, type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	for _, r := range rows {
		if c, ok := out[r.StoryID]; ok {
			c[r.Type] = r.Count
		}
	}
	return out, nil
}

func (s *Service) React(ctx context.Context, in ReactionInput) (ReactionState, error) {
	return s.SetReaction(ctx, in, true)
}

func (s *Service) Unreact(ctx context.Context, in ReactionInput) (ReactionState, error) {
	return s.SetReaction(ctx, in, false)
}

// Toggle flips the session's reaction of the given type on the story.
func (s *Service) Toggle(ctx context.Context, in ReactionInput) (ReactionState, error) {
	return s.mutateReaction(ctx, in, func(tx *gorm.DB) (bool, error) {
		var n int64
		if err := tx.Model(&Reaction{}).
			Where("story_id = ? AND type = ? AND session_id = ?", in.StoryID, in.Type, in.SessionID).
			Count(&n).Error; err != nil {
			return false, err
		}
		return n == 0, nil
	})
}

// SetReaction makes the (story, type, session) row present or absent. Both
// directions are idempotent.
func (s *Service) SetReaction(ctx context.Context, in ReactionInput, present bool) (ReactionState, error) {
	return s.mutateReaction(ctx, in, func(*gorm.DB) (bool, error) { return present, nil })
}

func (s *Service) mutateReaction(ctx context.Context, in ReactionInput, want func(tx *gorm.DB) (bool, error)) (ReactionState, error) {
	if !ValidReaction(string(in.Type)) {
		return ReactionState{}, ErrInvalidReaction
	}

	var state ReactionState
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock the story row so recounts for the same story serialize
		var st Story
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "version").
			First(&st, in.StoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		present, err := want(tx)
		if err != nil {
			return err
		}

		if present {
			r := Reaction{StoryID: in.StoryID, Type: in.Type, SessionID: in.SessionID, CreatedAt: s.now()}
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&r).Error
			if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("insert reaction: %w", err)
			}
		} else {
			if err := tx.
				Where("story_id = ? AND type = ? AND session_id = ?", in.StoryID, in.Type, in.SessionID).
				Delete(&Reaction{}).Error; err != nil {
				return fmt.Errorf("delete reaction: %w", err)
			}
		}

		version := st.Version + 1
		total, err := recount(tx, in.StoryID, version)
		if err != nil {
			return err
		}
		counts, err := countReactions(tx, []uint64{in.StoryID})
		if err != nil {
			return err
		}
		state = ReactionState{StoryID: in.StoryID, Reactions: counts[in.StoryID], TotalReactions: total, Version: version}
		return nil
	})
	if err != nil {
		return ReactionState{}, err
	}

	if s.Pub != nil {
		s.Pub.PublishReaction(state)
	}
	return state, nil
}

// recount derives the cached total from the reaction rows and stores it
// together with the story's new version. The caller holds the row lock.
func recount(tx *gorm.DB, storyID uint64, version int64) (int64, error) {
	var total int64
	if err := tx.Model(&Reaction{}).Where("story_id = ?", storyID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count story reactions: %w", err)
	}
	if err := tx.Model(&Story{}).Where("id = ?", storyID).
		Updates(map[string]any{"likes": total, "version": version}).Error; err != nil {
		return 0, fmt.Errorf("update likes: %w", err)
	}
	return total, nil
}

func (s *Service) Report(ctx context.Context, storyID uint64, reason string) (Report, error) {
	var rep Report
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st Story
		if err := tx.Select("id").First(&st, storyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		rep = Report{StoryID: storyID, Reason: reason, CreatedAt: s.now()}
		return tx.Create(&rep).Error
	})
	return rep, err
}

// RecentReports lists reports newest first for moderators.
func (s *Service) RecentReports(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []Report
	err := s.DB.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&out).Error
	return out, err
}
