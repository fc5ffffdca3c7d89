package model

import (
	"errors"
	"fmt"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyOnce    Frequency = "once"
)

type Chore struct {
	ID         string    `json:"-" yaml:"-"`
	Name       string    `json:"name" yaml:"name"`
	AssignedTo string    `json:"assignedTo" yaml:"assignedTo"`
	FamilyID   string    `json:"familyId" yaml:"-"`
	Frequency  Frequency `json:"frequency" yaml:"frequency"`
	DayOfWeek  string    `json:"dayOfWeek,omitempty" yaml:"dayOfWeek"`
	Completed  bool      `json:"completed" yaml:"completed"`
	DueTime    string    `json:"dueTime" yaml:"dueTime"`
}

func (c Chore) Validate() error {
	if c.Name == "" {
		return errors.New("chore name is required")
	}
	if c.AssignedTo == "" {
		return fmt.Errorf("chore %q is not assigned", c.Name)
	}
	switch c.Frequency {
	case FrequencyDaily, FrequencyMonthly, FrequencyOnce:
		if c.DayOfWeek != "" {
			return fmt.Errorf("chore %q: dayOfWeek is only valid for weekly chores", c.Name)
		}
	case FrequencyWeekly:
		if !IsWeekdayName(c.DayOfWeek) {
			return fmt.Errorf("chore %q: weekly chore needs a dayOfWeek, got %q", c.Name, c.DayOfWeek)
		}
	default:
		return fmt.Errorf("chore %q: unknown frequency %q", c.Name, c.Frequency)
	}
	if !IsClock(c.DueTime) {
		return fmt.Errorf("chore %q: dueTime %q is not HH:MM", c.Name, c.DueTime)
	}
	return nil
}

func (c *Chore) SetID(id string) { c.ID = id }
