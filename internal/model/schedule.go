package model

type ScheduleKind string

const (
	KindEvent ScheduleKind = "event"
	KindMeal  ScheduleKind = "meal"
	KindChore ScheduleKind = "chore"
)

// ScheduleItem is one row of the daily agenda. It is never persisted.
type ScheduleItem struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	TimeKey    string       `json:"timeKey"`
	Kind       ScheduleKind `json:"kind"`
	AssignedTo string       `json:"assignedTo,omitempty"`
}
