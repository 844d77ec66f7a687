package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Shamsear/typevelocity/internal/clock"
	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/progress"
	"github.com/Shamsear/typevelocity/internal/store"
)

// Repository reads and writes the profile record.
type Repository struct {
	st    *store.Store
	log   *logging.Logger
	clk   clock.Clock
	goals Goals
}

// NewRepository returns a repository over st.
func NewRepository(st *store.Store, log *logging.Logger, clk clock.Clock, goals Goals) *Repository {
	return &Repository{st: st, log: log, clk: clk, goals: goals}
}

// Load returns the stored profile merged over the defaults. A missing or
// unreadable record yields the default profile; read failures are logged.
func (r *Repository) Load(ctx context.Context) model.Profile {
	now := r.clk.Now()
	p := Default(now)
	raw, err := r.st.Get(ctx, store.KeyProfile)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		r.log.Errorf("failed to read profile, using defaults: %v", err)
	default:
		if err := json.Unmarshal(raw, &p); err != nil {
			r.log.Errorf("failed to parse profile, using defaults: %v", err)
			p = Default(now)
		}
	}
	Normalize(&p, now, r.goals)
	return p
}

// LoadForDay loads the profile and rolls the streak over to today, saving
// immediately when the day changed.
func (r *Repository) LoadForDay(ctx context.Context) model.Profile {
	p := r.Load(ctx)
	if progress.UpdateDailyStreak(&p, r.clk.Now()) {
		if err := r.Save(ctx, p); err != nil {
			r.log.Errorf("failed to save profile after day rollover: %v", err)
		}
	}
	return p
}

// Save persists the profile.
func (r *Repository) Save(ctx context.Context, p model.Profile) error {
	return r.st.PutJSON(ctx, store.KeyProfile, p)
}

// Reset removes the stored profile and returns a fresh default.
func (r *Repository) Reset(ctx context.Context) (model.Profile, error) {
	if err := r.st.Delete(ctx, store.KeyProfile); err != nil {
		return model.Profile{}, err
	}
	p := Default(r.clk.Now())
	Normalize(&p, r.clk.Now(), r.goals)
	return p, nil
}

// SetPreference updates one preference and persists the profile. The theme
// is also stored under its own key.
func (r *Repository) SetPreference(ctx context.Context, p *model.Profile, key, value string) error {
	if err := SetPreference(p, key, value); err != nil {
		return err
	}
	if err := r.Save(ctx, *p); err != nil {
		return err
	}
	if strings.EqualFold(key, "theme") {
		return r.st.PutJSON(ctx, store.KeyTheme, p.Preferences.Theme)
	}
	return nil
}

// Theme returns the stored theme, falling back to the profile preference.
func (r *Repository) Theme(ctx context.Context, p model.Profile) string {
	var theme string
	if err := r.st.GetJSON(ctx, store.KeyTheme, &theme); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.log.Warnf("failed to read theme: %v", err)
		}
		return p.Preferences.Theme
	}
	if !contains(Themes, theme) {
		return p.Preferences.Theme
	}
	return theme
}
