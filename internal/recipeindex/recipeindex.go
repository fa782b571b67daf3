package recipeindex

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/weekmenu/internal/logger"
	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/recipeindex/postgres"
	"github.com/julianstephens/weekmenu/internal/recipeindex/sqlite"
)

// ErrNotSynced is returned when suggestions are requested from an index that
// was never filled.
var ErrNotSynced = errors.New("recipe index is empty, run 'weekmenu index sync' first")

// Provider is a recipe name index backend.
type Provider interface {
	Init(ctx context.Context) error
	Close() error
	Location() string
	ReplaceAll(ctx context.Context, names []string, syncedAt time.Time) error
	Names(ctx context.Context) ([]string, error)
	Search(ctx context.Context, term string, limit int) ([]string, error)
	Status(ctx context.Context) (models.IndexStatus, error)
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// NameLister fetches the authoritative recipe name list.
type NameLister interface {
	RecipeNames(ctx context.Context) ([]string, error)
}

// Open picks the backend from the location: a postgres:// URL selects
// PostgreSQL, anything else is a sqlite file path. The provider is not
// initialised yet.
func Open(location string) (Provider, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("recipe index location cannot be empty")
	}
	if postgres.IsConnString(location) {
		if err := postgres.ValidateConnString(location); err != nil {
			return nil, err
		}
		return postgres.New(location), nil
	}
	return sqlite.New(location), nil
}

// Sync replaces the index contents with the server's current list.
func Sync(ctx context.Context, p Provider, lister NameLister) (int, error) {
	names, err := lister.RecipeNames(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch recipe names: %w", err)
	}
	names = Normalize(names)
	if err := p.ReplaceAll(ctx, names, time.Now()); err != nil {
		return 0, err
	}
	logger.Info("Recipe index synced", "names", len(names), "index", p.Location())
	return len(names), nil
}

// Normalize trims names, drops blanks and removes exact duplicates.
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
