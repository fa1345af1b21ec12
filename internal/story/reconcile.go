package story

import (
	"context"
	"time"

	"gorm.io/gorm"

	"whispermap/internal/logging"
)

// Reconciler periodically re-derives the cached likes total from reaction rows
// for any story where the two have drifted apart.
type Reconciler struct {
	DB       *gorm.DB
	Interval time.Duration
}

// Serve runs until ctx is done. A non-positive Interval disables the loop.
func (r *Reconciler) Serve(ctx context.Context) error {
	if r.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := r.RunOnce(ctx)
			if err != nil {
				logging.Error().Err(err).Msg("reconcile likes failed")
				continue
			}
			if n > 0 {
				logging.Warn().Int64("repaired", n).Msg("reconciled drifted likes totals")
			}
		}
	}
}

func (r *Reconciler) String() string { return "likes-reconciler" }

// RunOnce repairs every drifted total and returns how many stories changed.
func (r *Reconciler) RunOnce(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Exec(`
update stories
set likes = (select count(*) from reactions where reactions.story_id = stories.id),
    version = version + 1
where likes <> (select count(*) from reactions where reactions.story_id = stories.id)
`)
	return res.RowsAffected, res.Error
}
