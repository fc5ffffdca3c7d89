package model

import (
	"errors"
	"fmt"
)

type MemberType string

const (
	MemberParent MemberType = "parent"
	MemberChild  MemberType = "child"
)

type Member struct {
	ID              string     `json:"-" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Type            MemberType `json:"type" yaml:"type"`
	Gender          string     `json:"gender,omitempty" yaml:"gender"`
	CompletedChores int        `json:"completedChores" yaml:"completedChores"`
	TotalChores     int        `json:"totalChores" yaml:"totalChores"`
	Points          int        `json:"points" yaml:"points"`
	Streak          int        `json:"streak" yaml:"streak"`
}

func (m Member) Validate() error {
	if m.Name == "" {
		return errors.New("member name is required")
	}
	switch m.Type {
	case MemberParent, MemberChild:
	default:
		return fmt.Errorf("unknown member type %q", m.Type)
	}
	if m.CompletedChores < 0 || m.TotalChores < 0 || m.Points < 0 || m.Streak < 0 {
		return fmt.Errorf("member %q has a negative counter", m.Name)
	}
	if m.CompletedChores > m.TotalChores {
		return fmt.Errorf("member %q: completedChores %d exceeds totalChores %d", m.Name, m.CompletedChores, m.TotalChores)
	}
	return nil
}

func (m *Member) SetID(id string) { m.ID = id }

// RankedMember is a leaderboard row. Rank is positional and starts at 1.
// ID repeats Member.ID, which stays out of stored documents.
type RankedMember struct {
	ID     string `json:"id"`
	Member Member `json:"member"`
	Rank   int    `json:"rank"`
}
