package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekdayCode is the server's weekday key: "1" (Monday) through "7" (Sunday).
type WeekdayCode string

const (
	Monday    WeekdayCode = "1"
	Tuesday   WeekdayCode = "2"
	Wednesday WeekdayCode = "3"
	Thursday  WeekdayCode = "4"
	Friday    WeekdayCode = "5"
	Saturday  WeekdayCode = "6"
	Sunday    WeekdayCode = "7"
)

// Weekdays lists every weekday code in display order.
var Weekdays = []WeekdayCode{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[WeekdayCode]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// Valid reports whether c is one of the seven weekday codes.
func (c WeekdayCode) Valid() bool {
	_, ok := weekdayNames[c]
	return ok
}

// Name returns the English weekday name, or the raw code if it is unknown.
func (c WeekdayCode) Name() string {
	if name, ok := weekdayNames[c]; ok {
		return name
	}
	return string(c)
}

// Short returns the three-letter abbreviation used in column headers.
func (c WeekdayCode) Short() string {
	name := c.Name()
	if len(name) > 3 {
		return name[:3]
	}
	return name
}

// Weekday converts the code to a time.Weekday.
func (c WeekdayCode) Weekday() time.Weekday {
	n, err := strconv.Atoi(string(c))
	if err != nil || n < 1 || n > 7 {
		return time.Sunday
	}
	return time.Weekday(n % 7)
}

// WeekdayFromTime returns the code for t's weekday.
func WeekdayFromTime(t time.Time) WeekdayCode {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return WeekdayCode(strconv.Itoa(wd))
}

// ParseWeekday accepts a weekday code ("1".."7"), a full name or a
// three-letter abbreviation.
func ParseWeekday(s string) (WeekdayCode, error) {
	part := strings.TrimSpace(strings.ToLower(s))

	dayMap := map[string]WeekdayCode{
		"mon":       Monday,
		"monday":    Monday,
		"tue":       Tuesday,
		"tuesday":   Tuesday,
		"wed":       Wednesday,
		"wednesday": Wednesday,
		"thu":       Thursday,
		"thursday":  Thursday,
		"fri":       Friday,
		"friday":    Friday,
		"sat":       Saturday,
		"saturday":  Saturday,
		"sun":       Sunday,
		"sunday":    Sunday,
	}

	if code, ok := dayMap[part]; ok {
		return code, nil
	}
	if code := WeekdayCode(part); code.Valid() {
		return code, nil
	}
	return "", fmt.Errorf("invalid weekday: %s", s)
}

// MenuEntry is one planned dish as the server reports it. An empty RecipeName
// means no dish is assigned.
type MenuEntry struct {
	ID         int64       `json:"toweekMenuPlanDetId"`
	Weekday    WeekdayCode `json:"weekdayCd"`
	RecipeName string      `json:"recipeNm"`
	RecipeID   *int64      `json:"recipeId,omitempty"`
}

// MenuListDict is the canonical week: entries keyed by weekday code.
type MenuListDict map[WeekdayCode][]MenuEntry

// Entries returns the entries for a weekday. The slice is a copy.
func (d MenuListDict) Entries(day WeekdayCode) []MenuEntry {
	return append([]MenuEntry(nil), d[day]...)
}

// Find returns the entry with the given id on any weekday.
func (d MenuListDict) Find(id int64) (MenuEntry, bool) {
	for _, entries := range d {
		for _, e := range entries {
			if e.ID == id {
				return e, true
			}
		}
	}
	return MenuEntry{}, false
}

// Clone deep-copies the dict so holders never share backing arrays.
func (d MenuListDict) Clone() MenuListDict {
	if d == nil {
		return MenuListDict{}
	}
	out := make(MenuListDict, len(d))
	for day, entries := range d {
		out[day] = append([]MenuEntry(nil), entries...)
	}
	return out
}
