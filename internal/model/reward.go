package model

import (
	"errors"
	"fmt"
	"time"
)

type Reward struct {
	ID        string    `json:"-" yaml:"-"`
	Name      string    `json:"name" yaml:"name"`
	PointCost int       `json:"pointCost" yaml:"pointCost"`
	FamilyID  string    `json:"familyId" yaml:"-"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
}

func (r Reward) Validate() error {
	if r.Name == "" {
		return errors.New("reward name is required")
	}
	if r.PointCost <= 0 {
		return fmt.Errorf("reward %q: pointCost must be > 0, got %d", r.Name, r.PointCost)
	}
	return nil
}

func (r *Reward) SetID(id string) { r.ID = id }
