package rowedit

import (
	"sync"

	"github.com/julianstephens/weekmenu/internal/models"
)

// Week holds the canonical week. It is only ever replaced wholesale, by the
// latest successful server answer.
type Week struct {
	mu        sync.RWMutex
	dict      models.MenuListDict
	version   uint64
	listeners []func(models.MenuListDict)
}

func NewWeek(dict models.MenuListDict) *Week {
	return &Week{dict: dict.Clone()}
}

// Replace installs dict as the canonical week and notifies subscribers. The
// lock is released before listeners run.
func (w *Week) Replace(dict models.MenuListDict) {
	w.mu.Lock()
	w.dict = dict.Clone()
	w.version++
	snapshot := w.dict.Clone()
	listeners := append([]func(models.MenuListDict){}, w.listeners...)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Subscribe registers fn to run after every Replace.
func (w *Week) Subscribe(fn func(models.MenuListDict)) {
	w.mu.Lock()
	w.listeners = append(w.listeners, fn)
	w.mu.Unlock()
}

// Snapshot returns a copy of the canonical week.
func (w *Week) Snapshot() models.MenuListDict {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dict.Clone()
}

// Entries returns a copy of one weekday's canonical entries.
func (w *Week) Entries(day models.WeekdayCode) []models.MenuEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dict.Entries(day)
}

// Version counts replacements.
func (w *Week) Version() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.version
}
