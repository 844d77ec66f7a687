package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/store"
)

// Repository persists the boards under a single store key.
type Repository struct {
	st  *store.Store
	log *logging.Logger
}

// NewRepository returns a repository over st.
func NewRepository(st *store.Store, log *logging.Logger) *Repository {
	return &Repository{st: st, log: log}
}

// Load returns the stored boards. Missing or unreadable boards are rebuilt
// from the profile; read failures are logged, not returned.
func (r *Repository) Load(ctx context.Context, p model.Profile, name string, now time.Time) model.Leaderboards {
	var lb model.Leaderboards
	err := r.st.GetJSON(ctx, store.KeyLeaderboard, &lb)
	switch {
	case err == nil:
		return lb
	case errors.Is(err, store.ErrNotFound):
		r.log.Debugf("initialising leaderboards")
	default:
		r.log.Warnf("failed to load leaderboards, rebuilding: %v", err)
	}
	return Init(p, name, now)
}

// Save persists the boards.
func (r *Repository) Save(ctx context.Context, lb model.Leaderboards) error {
	return r.st.PutJSON(ctx, store.KeyLeaderboard, lb)
}
