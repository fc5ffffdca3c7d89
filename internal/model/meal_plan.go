package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type MealSlotName string

const (
	SlotBreakfast MealSlotName = "breakfast"
	SlotLunch     MealSlotName = "lunch"
	SlotDinner    MealSlotName = "dinner"
	SlotSnack     MealSlotName = "snack"
)

// MealSlotNames lists the slot keys in display order.
var MealSlotNames = []MealSlotName{SlotBreakfast, SlotLunch, SlotSnack, SlotDinner}

func (n MealSlotName) Valid() bool {
	switch n {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnack:
		return true
	}
	return false
}

type MealSlot struct {
	Title       string `json:"title" yaml:"title"`
	PrepTime    string `json:"prepTime,omitempty" yaml:"prepTime"`
	CookTime    string `json:"cookTime,omitempty" yaml:"cookTime"`
	Description string `json:"description,omitempty" yaml:"description"`
	Notes       string `json:"notes,omitempty" yaml:"notes"`
}

type MealSlotSet map[MealSlotName]MealSlot

func (s MealSlotSet) Validate() error {
	for name, slot := range s {
		if !name.Valid() {
			return fmt.Errorf("unknown meal slot %q", name)
		}
		if slot.Title == "" {
			return fmt.Errorf("meal slot %q has no title", name)
		}
	}
	return nil
}

// MealPlan covers one week. Days is keyed by lowercase weekday name and is
// flattened into the top level of the stored document.
type MealPlan struct {
	FamilyID  string
	WeekID    string
	StartDate time.Time
	EndDate   time.Time
	Days      map[string]MealSlotSet
}

// NewMealPlan returns an empty plan for the week starting at start.
func NewMealPlan(familyID string, start time.Time) MealPlan {
	return MealPlan{
		FamilyID:  familyID,
		WeekID:    WeekID(start),
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 7),
		Days:      make(map[string]MealSlotSet),
	}
}

// Covers reports whether day falls in [StartDate, EndDate), compared by date.
func (p MealPlan) Covers(day time.Time) bool {
	d := DateKey(day)
	return DateKey(p.StartDate) <= d && d < DateKey(p.EndDate)
}

func (p MealPlan) Validate() error {
	if p.StartDate.IsZero() {
		return errors.New("meal plan startDate is required")
	}
	// Calendar dates, not instants: the offset can change across DST.
	if DateKey(p.EndDate) != DateKey(p.StartDate.AddDate(0, 0, 7)) {
		return fmt.Errorf("meal plan endDate %s is not 7 days after startDate %s",
			DateKey(p.EndDate), DateKey(p.StartDate))
	}
	for day, slots := range p.Days {
		if !IsWeekdayName(day) {
			return fmt.Errorf("meal plan has unknown weekday %q", day)
		}
		if err := slots.Validate(); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

func (p *MealPlan) SetID(id string) { p.WeekID = id }

func (p MealPlan) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(p.Days)+3)
	if p.FamilyID != "" {
		doc["familyId"] = p.FamilyID
	}
	doc["startDate"] = p.StartDate
	doc["endDate"] = p.EndDate
	for day, slots := range p.Days {
		doc[day] = slots
	}
	return json.Marshal(doc)
}

func (p *MealPlan) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := MealPlan{WeekID: p.WeekID, Days: make(map[string]MealSlotSet)}
	for key, val := range raw {
		var err error
		switch {
		case key == "familyId":
			err = json.Unmarshal(val, &out.FamilyID)
		case key == "startDate":
			err = json.Unmarshal(val, &out.StartDate)
		case key == "endDate":
			err = json.Unmarshal(val, &out.EndDate)
		case IsWeekdayName(key):
			var slots MealSlotSet
			err = json.Unmarshal(val, &slots)
			out.Days[key] = slots
		default:
			err = fmt.Errorf("unexpected meal plan field %q", key)
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	*p = out
	return nil
}
