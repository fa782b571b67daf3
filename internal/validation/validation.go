package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/weekmenu/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictUnknownWeekday   ConflictType = "unknown_weekday"
	ConflictWeekdayMismatch  ConflictType = "weekday_mismatch"
	ConflictDuplicateEntryID ConflictType = "duplicate_entry_id"
	ConflictInvalidEntryID   ConflictType = "invalid_entry_id"
	ConflictOrphanRecipeID   ConflictType = "orphan_recipe_id"
)

// Conflict represents an inconsistency in a week returned by the server
type Conflict struct {
	Type        ConflictType
	Description string
	Weekday     models.WeekdayCode
	EntryIDs    []int64
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks weeks for data the editor cannot work with
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateWeek checks that every entry sits under its own weekday and that
// entry ids are positive and unique across the week.
func (v *Validator) ValidateWeek(week models.MenuListDict) ValidationResult {
	var result ValidationResult

	days := make([]models.WeekdayCode, 0, len(week))
	for day := range week {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	seen := make(map[int64]models.WeekdayCode)
	for _, day := range days {
		if !day.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownWeekday,
				Description: fmt.Sprintf("Unknown weekday code %q with %d entries", day, len(week[day])),
				Weekday:     day,
			})
			continue
		}

		for _, entry := range week[day] {
			if entry.ID <= 0 {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidEntryID,
					Description: fmt.Sprintf("%s has an entry with invalid id %d", day.Name(), entry.ID),
					Weekday:     day,
					EntryIDs:    []int64{entry.ID},
				})
				continue
			}

			if entry.Weekday != "" && entry.Weekday != day {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictWeekdayMismatch,
					Description: fmt.Sprintf("Entry %d is listed under %s but claims weekday %q", entry.ID, day.Name(), entry.Weekday),
					Weekday:     day,
					EntryIDs:    []int64{entry.ID},
				})
			}

			if other, dup := seen[entry.ID]; dup {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDuplicateEntryID,
					Description: fmt.Sprintf("Entry id %d appears on both %s and %s", entry.ID, other.Name(), day.Name()),
					Weekday:     day,
					EntryIDs:    []int64{entry.ID},
				})
			} else {
				seen[entry.ID] = day
			}

			if entry.RecipeID != nil && strings.TrimSpace(entry.RecipeName) == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictOrphanRecipeID,
					Description: fmt.Sprintf("Entry %d on %s references recipe %d but has no name", entry.ID, day.Name(), *entry.RecipeID),
					Weekday:     day,
					EntryIDs:    []int64{entry.ID},
				})
			}
		}
	}

	return result
}
