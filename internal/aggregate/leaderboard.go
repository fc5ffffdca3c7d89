// Package aggregate derives read-side views from domain records. The
// functions are pure and never fail; odd input degrades to defaults.
package aggregate

import (
	"slices"

	"github.com/dukerupert/familyhub/internal/model"
)

// RankLeaderboard ranks child members by points, highest first. Equal
// points keep their input order and still get distinct positional ranks.
func RankLeaderboard(members []model.Member) []model.RankedMember {
	children := make([]model.Member, 0, len(members))
	for _, m := range members {
		if m.Type == model.MemberChild {
			children = append(children, m)
		}
	}

	slices.SortStableFunc(children, func(a, b model.Member) int {
		return points(b) - points(a)
	})

	ranked := make([]model.RankedMember, len(children))
	for i, m := range children {
		ranked[i] = model.RankedMember{ID: m.ID, Member: m, Rank: i + 1}
	}
	return ranked
}

func points(m model.Member) int {
	if m.Points < 0 {
		return 0
	}
	return m.Points
}
