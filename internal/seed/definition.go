package seed

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dukerupert/familyhub/internal/model"
	"gopkg.in/yaml.v3"
)

// Definition is the starter dataset written by the Engine.
type Definition struct {
	FamilyID   string            `yaml:"familyId"`
	FamilyName string            `yaml:"familyName"`
	ParentIDs  []string          `yaml:"parentIds"`
	Members    []model.Member    `yaml:"members"`
	Rewards    []model.Reward    `yaml:"rewards"`
	Chores     []model.Chore     `yaml:"chores"`
	MealSlots  model.MealSlotSet `yaml:"mealSlots"`
}

// DefaultDefinition returns the built-in family: two parents, two children,
// four rewards, three chores and a day of meals.
func DefaultDefinition() Definition {
	return Definition{
		FamilyID:   model.DefaultFamilyID,
		FamilyName: "The Carter Family",
		ParentIDs:  []string{"sarah", "david"},
		Members: []model.Member{
			{ID: "sarah", Name: "Sarah", Type: model.MemberParent, Gender: "female", CompletedChores: 12, TotalChores: 14, Points: 0, Streak: 6},
			{ID: "david", Name: "David", Type: model.MemberParent, Gender: "male", CompletedChores: 9, TotalChores: 12, Points: 0, Streak: 3},
			{ID: "emma", Name: "Emma", Type: model.MemberChild, Gender: "female", CompletedChores: 8, TotalChores: 10, Points: 145, Streak: 5},
			{ID: "jake", Name: "Jake", Type: model.MemberChild, Gender: "male", CompletedChores: 6, TotalChores: 9, Points: 120, Streak: 2},
		},
		Rewards: []model.Reward{
			{Name: "Extra Screen Time", PointCost: 50},
			{Name: "Pick Friday Dinner", PointCost: 75},
			{Name: "Movie Night Choice", PointCost: 100},
			{Name: "Stay Up Late", PointCost: 150},
		},
		Chores: []model.Chore{
			{Name: "Feed the dog", AssignedTo: "emma", Frequency: model.FrequencyDaily, DueTime: "07:30"},
			{Name: "Take out the trash", AssignedTo: "jake", Frequency: model.FrequencyWeekly, DayOfWeek: "tuesday", DueTime: "19:00"},
			{Name: "Load the dishwasher", AssignedTo: "emma", Frequency: model.FrequencyDaily, DueTime: "19:30"},
		},
		MealSlots: model.MealSlotSet{
			model.SlotBreakfast: {Title: "Blueberry Pancakes", PrepTime: "10 min", CookTime: "15 min", Description: "Fluffy pancakes with fresh blueberries"},
			model.SlotLunch:     {Title: "Turkey Wraps", PrepTime: "10 min", Description: "Whole wheat wraps with turkey and veggies"},
			model.SlotSnack:     {Title: "Apple Slices & Peanut Butter", PrepTime: "5 min"},
			model.SlotDinner:    {Title: "Chicken Stir Fry", PrepTime: "15 min", CookTime: "20 min", Description: "Chicken with broccoli and peppers over rice", Notes: "Jake: no peppers"},
		},
	}
}

// LoadFile reads a YAML seed definition. Unknown fields are rejected.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read seed file: %w", err)
	}

	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("%w: parse %s: %v", ErrMalformedSeed, path, err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks the definition against the model invariants before any
// write happens.
func (d Definition) Validate() error {
	if d.FamilyID == "" {
		return fmt.Errorf("%w: familyId is required", ErrMalformedSeed)
	}

	members := make(map[string]model.Member, len(d.Members))
	for i, m := range d.Members {
		if m.ID == "" {
			return fmt.Errorf("%w: member %d has no id", ErrMalformedSeed, i)
		}
		if _, dup := members[m.ID]; dup {
			return fmt.Errorf("%w: duplicate member id %q", ErrMalformedSeed, m.ID)
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSeed, err)
		}
		members[m.ID] = m
	}

	family := model.Family{Name: d.FamilyName, MemberIDs: d.ParentIDs}
	if err := family.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSeed, err)
	}
	for _, id := range d.ParentIDs {
		m, ok := members[id]
		if !ok {
			return fmt.Errorf("%w: parent %q is not a member", ErrMalformedSeed, id)
		}
		if m.Type != model.MemberParent {
			return fmt.Errorf("%w: %q is listed as a parent but has type %q", ErrMalformedSeed, id, m.Type)
		}
	}

	for _, r := range d.Rewards {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSeed, err)
		}
	}

	for _, c := range d.Chores {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSeed, err)
		}
		if _, ok := members[c.AssignedTo]; !ok {
			return fmt.Errorf("%w: chore %q assigned to unknown member %q", ErrMalformedSeed, c.Name, c.AssignedTo)
		}
	}

	if err := d.MealSlots.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSeed, err)
	}
	return nil
}
