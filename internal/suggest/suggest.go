package suggest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/recipeindex"
)

// Set is an ordered collection of distinct recipe names.
type Set struct {
	names  []string
	lookup map[string]struct{}
}

// NewSet builds a Set, keeping the first occurrence of each name.
func NewSet(names ...string) Set {
	s := Set{lookup: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := s.lookup[name]; ok {
			continue
		}
		s.lookup[name] = struct{}{}
		s.names = append(s.names, name)
	}
	return s
}

// Contains reports exact membership.
func (s Set) Contains(name string) bool {
	_, ok := s.lookup[name]
	return ok
}

// Names returns the names in ranking order. The slice is a copy.
func (s Set) Names() []string {
	return append([]string(nil), s.names...)
}

func (s Set) Len() int {
	return len(s.names)
}

// Source returns the suggestions for partial text.
type Source interface {
	Suggest(ctx context.Context, partial string) (Set, error)
}

// Getter is the part of the request pipeline APISource needs.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
}

// APISource asks the server for suggestions on every query.
type APISource struct {
	api Getter
}

func NewAPISource(api Getter) *APISource {
	return &APISource{api: api}
}

func (s *APISource) Suggest(ctx context.Context, partial string) (Set, error) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return NewSet(), nil
	}
	var resp struct {
		Suggestions []string `json:"recipeNmSuggestions"`
	}
	query := url.Values{constants.QueryRecipeNamePartial: {partial}}
	if err := s.api.Get(ctx, constants.PathRecipeSuggestions, query, &resp); err != nil {
		return Set{}, err
	}
	return NewSet(resp.Suggestions...), nil
}

// IndexSource serves suggestions from the local recipe index, ranked by fuzzy
// match quality.
type IndexSource struct {
	index recipeindex.Provider
	limit int
}

func NewIndexSource(index recipeindex.Provider, limit int) *IndexSource {
	if limit <= 0 {
		limit = constants.SuggestionLimit
	}
	return &IndexSource{index: index, limit: limit}
}

func (s *IndexSource) Suggest(ctx context.Context, partial string) (Set, error) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return NewSet(), nil
	}

	status, err := s.index.Status(ctx)
	if err != nil {
		return Set{}, err
	}
	if !status.Synced() {
		return Set{}, recipeindex.ErrNotSynced
	}

	names, err := s.index.Names(ctx)
	if err != nil {
		return Set{}, fmt.Errorf("failed to load recipe index: %w", err)
	}
	return NewSet(Rank(partial, names, s.limit)...), nil
}

// Rank returns up to limit names matching partial, best match first. Both
// sides are folded so ranking ignores case.
func Rank(partial string, names []string, limit int) []string {
	folded := make([]string, len(names))
	for i, name := range names {
		folded[i] = strings.ToLower(name)
	}
	matches := fuzzy.Find(strings.ToLower(partial), folded)

	var out []string
	for _, m := range matches {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, names[m.Index])
	}
	return out
}
