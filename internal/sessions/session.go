package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/internal/flow"
	"github.com/cardapiohub/cardapio-backend/internal/notify"
	"github.com/cardapiohub/cardapio-backend/internal/upsell"
)

// Session serializes every operation on one customer's flow and upsell state.
type Session struct {
	id      uuid.UUID
	storeID uuid.UUID
	flow    *flow.Controller
	upsell  *upsell.Sequencer
	notices *notify.Recorder
	now     func() time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Result is the state of a session after an operation, with the notices the
// operation produced.
type Result struct {
	SessionID     uuid.UUID       `json:"session_id"`
	Flow          flow.View       `json:"flow"`
	Outcome       *flow.Outcome   `json:"outcome,omitempty"`
	Upsell        upsell.View     `json:"upsell"`
	UpsellOutcome *upsell.Outcome `json:"upsell_outcome,omitempty"`
	Notices       []notify.Notice `json:"notices"`
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) StoreID() uuid.UUID {
	return s.storeID
}

// run applies op under the session lock. A finalized item starts the upsell
// sequence for its category. The result is returned even when op fails so
// callers can still deliver the notices.
func (s *Session) run(ctx context.Context, op func(ctx context.Context) (*flow.Outcome, error)) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()

	out, err := op(ctx)
	if err == nil && out != nil && out.Finalized != nil {
		s.upsell.Start(ctx, upsell.Trigger{
			CategoryID: out.Finalized.TriggerCategoryID,
			SizeID:     out.Finalized.SizeID,
		})
	}
	res := s.resultLocked()
	res.Outcome = out
	return res, err
}

func (s *Session) resultLocked() *Result {
	notices := s.notices.Drain()
	if notices == nil {
		notices = []notify.Notice{}
	}
	return &Result{
		SessionID: s.id,
		Flow:      s.flow.Snapshot(),
		Upsell:    s.upsell.View(),
		Notices:   notices,
	}
}

// View returns the current state and drains pending notices.
func (s *Session) View() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.resultLocked()
}

// ChooseSize starts a new item. An upsell sequence still open is closed once
// the new item starts.
func (s *Session) ChooseSize(ctx context.Context, categoryID, sizeID uuid.UUID) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*flow.Outcome, error) {
		out, err := s.flow.ChooseSize(ctx, categoryID, sizeID)
		if err == nil {
			s.upsell.Cancel(ctx)
		}
		return out, err
	})
}

func (s *Session) ToggleFlavor(ctx context.Context, optionID uuid.UUID) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*flow.Outcome, error) {
		return nil, s.flow.ToggleFlavor(ctx, optionID)
	})
}

func (s *Session) SetNotes(ctx context.Context, notes string) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*flow.Outcome, error) {
		return nil, s.flow.SetNotes(notes)
	})
}

func (s *Session) ChooseEdge(ctx context.Context, optionID *uuid.UUID) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*flow.Outcome, error) {
		return nil, s.flow.ChooseEdge(ctx, optionID)
	})
}

func (s *Session) ChooseDough(ctx context.Context, optionID *uuid.UUID) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*flow.Outcome, error) {
		return nil, s.flow.ChooseDough(ctx, optionID)
	})
}

func (s *Session) ToggleAdditional(ctx context.Context, additionalID uuid.UUID) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*flow.Outcome, error) {
		return nil, s.flow.ToggleAdditional(ctx, additionalID)
	})
}

func (s *Session) ChangeAdditionalQuantity(ctx context.Context, additionalID uuid.UUID, delta int) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*flow.Outcome, error) {
		return nil, s.flow.ChangeAdditionalQuantity(ctx, additionalID, delta)
	})
}

func (s *Session) Advance(ctx context.Context) (*Result, error) {
	return s.run(ctx, s.flow.Advance)
}

// ChooseDrink picks a drink, or skips the step when productID is nil, and
// finalizes the item.
func (s *Session) ChooseDrink(ctx context.Context, productID *uuid.UUID) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*flow.Outcome, error) {
		return s.flow.ChooseDrink(ctx, productID)
	})
}

// Cancel abandons the item in progress and closes any upsell sequence.
func (s *Session) Cancel(ctx context.Context) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	s.cancelLocked(ctx)
	return s.resultLocked()
}

func (s *Session) cancelLocked(ctx context.Context) {
	s.flow.Cancel(ctx)
	s.upsell.Cancel(ctx)
}

func (s *Session) expireLocked(ctx context.Context) {
	s.flow.Expire(ctx)
	s.upsell.Expire(ctx)
}

// Upsell applies an action to the current upsell prompt.
func (s *Session) Upsell(ctx context.Context, action upsell.Action) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()

	out, err := s.upsell.Act(ctx, action)
	res := s.resultLocked()
	res.UpsellOutcome = out
	return res, err
}
