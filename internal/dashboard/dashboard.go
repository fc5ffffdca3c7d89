package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/familyhub/internal/aggregate"
	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/seed"
	"github.com/dukerupert/familyhub/internal/store"
	"golang.org/x/crypto/blake2b"
)

// SlotTimes places meal slots on the agenda.
var SlotTimes = map[model.MealSlotName]string{
	model.SlotBreakfast: "08:00",
	model.SlotLunch:     "12:30",
	model.SlotSnack:     "15:30",
	model.SlotDinner:    "18:30",
}

// Agenda is one day's schedule, merged and split by kind.
type Agenda struct {
	Date   string               `json:"date"`
	Items  []model.ScheduleItem `json:"items"`
	Events []model.ScheduleItem `json:"events"`
	Meals  []model.ScheduleItem `json:"meals"`
	Chores []model.ScheduleItem `json:"chores"`
}

// Service answers the dashboard's read requests from the document store.
// A deployment that was never seeded yields empty views, not errors.
type Service struct {
	gw     store.Gateway
	logger *slog.Logger

	mu       sync.Mutex
	boardKey [blake2b.Size256]byte
	board    []model.RankedMember
}

func NewService(gw store.Gateway, logger *slog.Logger) *Service {
	return &Service{gw: gw, logger: logger}
}

// FamilyID returns the seeded family, or "" before the first seed.
func (s *Service) FamilyID(ctx context.Context) (string, error) {
	marker, err := store.GetAs[model.FamilyMarker](ctx, s.gw, seed.MarkerPath)
	if err != nil {
		return "", fmt.Errorf("read family marker: %w", err)
	}
	if marker == nil {
		return "", nil
	}
	return marker.FamilyID, nil
}

// Leaderboard ranks the family's children. The result is reused while the
// member documents are unchanged.
func (s *Service) Leaderboard(ctx context.Context) ([]model.RankedMember, error) {
	familyID, err := s.FamilyID(ctx)
	if err != nil {
		return nil, err
	}
	if familyID == "" {
		return []model.RankedMember{}, nil
	}

	docs, err := s.gw.List(ctx, store.Join("families", familyID, "members"))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	key := digest(docs)

	s.mu.Lock()
	if s.board != nil && key == s.boardKey {
		board := append([]model.RankedMember(nil), s.board...)
		s.mu.Unlock()
		return board, nil
	}
	s.mu.Unlock()

	members := make([]model.Member, 0, len(docs))
	for _, d := range docs {
		m, err := store.Decode[model.Member](d)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	board := aggregate.RankLeaderboard(members)

	s.mu.Lock()
	s.boardKey = key
	s.board = board
	s.mu.Unlock()

	s.logger.Debug("leaderboard computed", "family_id", familyID, "ranked", len(board))
	return append([]model.RankedMember(nil), board...), nil
}

// Agenda merges the day's events, meals and due chores.
func (s *Service) Agenda(ctx context.Context, day time.Time) (Agenda, error) {
	agenda := Agenda{Date: model.DateKey(day)}

	familyID, err := s.FamilyID(ctx)
	if err != nil {
		return agenda, err
	}

	var items []aggregate.RawItem
	if familyID != "" {
		events, err := s.eventItems(ctx, familyID, day)
		if err != nil {
			return agenda, err
		}
		meals, err := s.mealItems(ctx, familyID, day)
		if err != nil {
			return agenda, err
		}
		chores, err := s.choreItems(ctx, familyID, day)
		if err != nil {
			return agenda, err
		}
		items = append(append(append(items, events...), meals...), chores...)
	}

	agenda.Items = aggregate.MergeAgenda(items)
	agenda.Events, agenda.Meals, agenda.Chores = aggregate.Partition(agenda.Items)
	return agenda, nil
}

func (s *Service) eventItems(ctx context.Context, familyID string, day time.Time) ([]aggregate.RawItem, error) {
	events, err := store.ListAs[model.Event](ctx, s.gw, "events")
	if err != nil {
		return nil, err
	}
	date := model.DateKey(day)
	var items []aggregate.RawItem
	for _, e := range events {
		if e.Date != date || (e.FamilyID != "" && e.FamilyID != familyID) {
			continue
		}
		items = append(items, aggregate.RawItem{
			ID:         e.ID,
			Title:      e.Title,
			Time:       e.Time,
			Kind:       model.KindEvent,
			AssignedTo: e.AssignedTo,
		})
	}
	return items, nil
}

func (s *Service) mealItems(ctx context.Context, familyID string, day time.Time) ([]aggregate.RawItem, error) {
	plans, err := store.ListAs[model.MealPlan](ctx, s.gw, store.Join("mealPlans", familyID, "weeks"))
	if err != nil {
		return nil, err
	}

	// Latest plan wins when weeks overlap.
	var plan *model.MealPlan
	for i := range plans {
		if plans[i].Covers(day) {
			plan = &plans[i]
		}
	}
	if plan == nil {
		return nil, nil
	}

	weekday := model.WeekdayName(day)
	slots := plan.Days[weekday]
	var items []aggregate.RawItem
	for _, name := range model.MealSlotNames {
		slot, ok := slots[name]
		if !ok {
			continue
		}
		items = append(items, aggregate.RawItem{
			ID:    store.Join(plan.WeekID, weekday, string(name)),
			Title: slot.Title,
			Time:  SlotTimes[name],
			Kind:  model.KindMeal,
		})
	}
	return items, nil
}

func (s *Service) choreItems(ctx context.Context, familyID string, day time.Time) ([]aggregate.RawItem, error) {
	chores, err := store.ListAs[model.Chore](ctx, s.gw, "chores")
	if err != nil {
		return nil, err
	}
	var items []aggregate.RawItem
	for _, c := range chores {
		if c.FamilyID != familyID || !DueOn(c, day) {
			continue
		}
		items = append(items, aggregate.RawItem{
			ID:         c.ID,
			Title:      c.Name,
			DueTime:    c.DueTime,
			Kind:       model.KindChore,
			AssignedTo: c.AssignedTo,
		})
	}
	return items, nil
}

// DueOn reports whether a chore belongs on the agenda for day. One-off
// chores show every day until they are done.
func DueOn(c model.Chore, day time.Time) bool {
	switch c.Frequency {
	case model.FrequencyDaily:
		return true
	case model.FrequencyWeekly:
		return c.DayOfWeek == model.WeekdayName(day)
	case model.FrequencyMonthly:
		return day.Day() == 1
	case model.FrequencyOnce:
		return !c.Completed
	}
	return false
}

// digest fingerprints a snapshot of documents.
func digest(docs []store.Document) [blake2b.Size256]byte {
	h, _ := blake2b.New256(nil)
	for _, d := range docs {
		h.Write([]byte(d.Path))
		h.Write([]byte{0})
		h.Write(d.Data)
		h.Write([]byte{0})
	}
	var sum [blake2b.Size256]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
