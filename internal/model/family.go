package model

import (
	"errors"
	"fmt"
	"time"
)

// DefaultFamilyID identifies the single family a deployment seeds.
const DefaultFamilyID = "default-family"

// FamilyMarker is the idempotency gate: its presence means the seed ran.
type FamilyMarker struct {
	FamilyID string `json:"familyId"`
}

func (m FamilyMarker) Validate() error {
	if m.FamilyID == "" {
		return errors.New("familyId is required")
	}
	return nil
}

type Family struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	MemberIDs []string  `json:"members"`
}

func (f Family) Validate() error {
	if f.Name == "" {
		return errors.New("family name is required")
	}
	seen := make(map[string]bool, len(f.MemberIDs))
	for _, id := range f.MemberIDs {
		if id == "" {
			return errors.New("family member id is empty")
		}
		if seen[id] {
			return fmt.Errorf("duplicate family member id %q", id)
		}
		seen[id] = true
	}
	return nil
}

func (f *Family) SetID(id string) { f.ID = id }

// SetID implements store.Record; the marker's key is fixed.
func (m *FamilyMarker) SetID(string) {}
