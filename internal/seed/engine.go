package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/store"
)

// MarkerPath is the well-known location of the idempotency gate.
const MarkerPath = "defaultFamily/current"

type Outcome string

const (
	OutcomeFailed        Outcome = "failed"
	OutcomeSeeded        Outcome = "seeded"
	OutcomeAlreadySeeded Outcome = "already_seeded"
)

// errMarkerTaken means another caller created the marker between our read
// and our exclusive create.
var errMarkerTaken = errors.New("marker created concurrently")

// Engine materializes the starter dataset at most once per deployment.
type Engine struct {
	gw       store.Gateway
	def      Definition
	now      func() time.Time
	logger   *slog.Logger
	onSeeded func(familyID string)
}

type Option func(*Engine)

// WithClock overrides time.Now; the seed date picks the meal plan week.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithOnSeeded registers a callback run after a successful seed.
func WithOnSeeded(fn func(familyID string)) Option {
	return func(e *Engine) { e.onSeeded = fn }
}

func NewEngine(gw store.Gateway, def Definition, opts ...Option) *Engine {
	e := &Engine{
		gw:     gw,
		def:    def,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnsureSeeded writes the starter dataset unless the marker already exists.
// It is safe to call on every start.
//
// On a store that implements store.Transactor all writes commit together.
// Otherwise a failure leaves earlier writes in place, including the marker,
// so a retry reports OutcomeAlreadySeeded without filling the gap.
func (e *Engine) EnsureSeeded(ctx context.Context) (Outcome, error) {
	if err := e.def.Validate(); err != nil {
		return OutcomeFailed, &BootstrapError{Kind: KindMalformedSeed, Step: "validate", Err: err}
	}

	doc, err := e.gw.Get(ctx, MarkerPath)
	if err != nil {
		return OutcomeFailed, &BootstrapError{Kind: KindRead, Step: "marker", Err: err}
	}
	if doc != nil {
		e.logger.Debug("seed skipped, marker present", "path", MarkerPath)
		return OutcomeAlreadySeeded, nil
	}

	now := e.now()
	tx, transactional := e.gw.(store.Transactor)
	if transactional {
		err = tx.RunInTx(ctx, func(g store.Gateway) error {
			return e.write(ctx, g, now)
		})
	} else {
		err = e.write(ctx, e.gw, now)
	}

	if errors.Is(err, errMarkerTaken) {
		e.logger.Info("seed skipped, marker created by another instance")
		return OutcomeAlreadySeeded, nil
	}
	if err != nil {
		var be *BootstrapError
		if !errors.As(err, &be) {
			be = &BootstrapError{Kind: KindWrite, Step: "commit", Err: err}
		}
		if !transactional {
			e.logger.Warn("seed aborted, earlier writes remain", "step", be.Step, "error", be.Err)
		}
		return OutcomeFailed, be
	}

	e.logger.Info("seed complete",
		"family_id", e.def.FamilyID,
		"members", len(e.def.Members),
		"rewards", len(e.def.Rewards),
		"chores", len(e.def.Chores),
		"week_id", model.WeekID(now),
	)
	if e.onSeeded != nil {
		e.onSeeded(e.def.FamilyID)
	}
	return OutcomeSeeded, nil
}

func (e *Engine) write(ctx context.Context, g store.Gateway, now time.Time) error {
	familyID := e.def.FamilyID

	err := g.Create(ctx, MarkerPath, model.FamilyMarker{FamilyID: familyID})
	if errors.Is(err, store.ErrExists) {
		return errMarkerTaken
	}
	if err != nil {
		return writeFailed("marker", err)
	}

	family := model.Family{
		Name:      e.def.FamilyName,
		CreatedAt: now,
		MemberIDs: append([]string(nil), e.def.ParentIDs...),
	}
	if err := g.Set(ctx, store.Join("families", familyID), family); err != nil {
		return writeFailed("family", err)
	}

	for _, m := range e.def.Members {
		if err := g.Set(ctx, store.Join("families", familyID, "members", m.ID), m); err != nil {
			return writeFailed("member "+m.ID, err)
		}
	}

	for i, r := range e.def.Rewards {
		r.FamilyID = familyID
		r.CreatedAt = now
		if _, err := g.Add(ctx, "rewards", r); err != nil {
			return writeFailed(fmt.Sprintf("reward %d", i+1), err)
		}
	}

	for i, c := range e.def.Chores {
		c.FamilyID = familyID
		if _, err := g.Add(ctx, "chores", c); err != nil {
			return writeFailed(fmt.Sprintf("chore %d", i+1), err)
		}
	}

	// Only today is filled in; the rest of the week is left for later edits.
	plan := model.NewMealPlan(familyID, now)
	slots := make(model.MealSlotSet, len(e.def.MealSlots))
	for name, slot := range e.def.MealSlots {
		slots[name] = slot
	}
	plan.Days[model.WeekdayName(now)] = slots
	if err := g.Set(ctx, store.Join("mealPlans", familyID, "weeks", plan.WeekID), plan); err != nil {
		return writeFailed("meal plan", err)
	}
	return nil
}

func writeFailed(step string, err error) *BootstrapError {
	return &BootstrapError{Kind: KindWrite, Step: step, Err: err}
}
