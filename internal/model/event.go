package model

import (
	"errors"
	"fmt"
)

// Event is a dated calendar entry shown on the daily agenda.
type Event struct {
	ID         string `json:"-"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
	FamilyID   string `json:"familyId,omitempty"`
}

func (e Event) Validate() error {
	if e.Title == "" {
		return errors.New("event title is required")
	}
	if e.Time != "" && !IsClock(e.Time) {
		return fmt.Errorf("event %q: time %q is not HH:MM", e.Title, e.Time)
	}
	return nil
}

func (e *Event) SetID(id string) { e.ID = id }
