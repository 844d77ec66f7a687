package heatmap

import (
	"context"
	"errors"

	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/store"
)

// Repository persists the error table.
type Repository struct {
	st  *store.Store
	log *logging.Logger
}

// NewRepository returns a repository over st.
func NewRepository(st *store.Store, log *logging.Logger) *Repository {
	return &Repository{st: st, log: log}
}

// Load returns the stored table, or an empty one when nothing readable is
// stored.
func (r *Repository) Load(ctx context.Context) *Table {
	var counts model.KeyErrorTable
	err := r.st.GetJSON(ctx, store.KeyKeyErrors, &counts)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		r.log.Warnf("failed to load key errors, starting empty: %v", err)
		counts = nil
	}
	return NewTable(counts)
}

// Save persists the table.
func (r *Repository) Save(ctx context.Context, t *Table) error {
	return r.st.PutJSON(ctx, store.KeyKeyErrors, t.Counts())
}
