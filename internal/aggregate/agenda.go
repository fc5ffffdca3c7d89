package aggregate

import (
	"slices"
	"strings"

	"github.com/dukerupert/familyhub/internal/model"
)

// RawItem is an agenda input. Events and meals carry Time, chores carry
// DueTime.
type RawItem struct {
	ID         string
	Title      string
	Time       string
	DueTime    string
	Kind       model.ScheduleKind
	AssignedTo string
}

func (r RawItem) timeKey() string {
	if r.Time != "" {
		return r.Time
	}
	if r.DueTime != "" {
		return r.DueTime
	}
	return model.DefaultTimeKey
}

// MergeAgenda produces one time-ordered sequence. Keys compare as strings,
// which orders zero-padded HH:MM correctly; ties keep input order.
func MergeAgenda(items []RawItem) []model.ScheduleItem {
	out := make([]model.ScheduleItem, len(items))
	for i, it := range items {
		out[i] = model.ScheduleItem{
			ID:         it.ID,
			Title:      it.Title,
			TimeKey:    it.timeKey(),
			Kind:       it.Kind,
			AssignedTo: it.AssignedTo,
		}
	}
	slices.SortStableFunc(out, func(a, b model.ScheduleItem) int {
		return strings.Compare(a.TimeKey, b.TimeKey)
	})
	return out
}

// Partition splits an agenda by kind for display, keeping order.
func Partition(items []model.ScheduleItem) (events, meals, chores []model.ScheduleItem) {
	events = []model.ScheduleItem{}
	meals = []model.ScheduleItem{}
	chores = []model.ScheduleItem{}
	for _, it := range items {
		switch it.Kind {
		case model.KindEvent:
			events = append(events, it)
		case model.KindMeal:
			meals = append(meals, it)
		case model.KindChore:
			chores = append(chores, it)
		}
	}
	return events, meals, chores
}
