// Package session keeps the transient per-client conversation state:
// the registration flow and the item awaiting a quantity. Nothing here is
// persisted; a restart drops open flows and the client is prompted again.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/looplab/fsm"
	"golang.org/x/text/unicode/norm"

	"telegram-order-bot/internal/models"
)

const (
	evLocation = "location_received"
	evAddress  = "address_received"

	stateRegistered = "registered"

	MaxInputRunes = 200
)

var (
	ErrEmptyInput   = errors.New("empty input")
	ErrInputTooLong = errors.New("input too long")
	// ErrStepChanged means another update moved the registration on first.
	ErrStepChanged = errors.New("registration step changed")
)

func newRegistrationFSM() *fsm.FSM {
	return fsm.NewFSM(
		string(models.StepAwaitingLocationName),
		fsm.Events{
			{Name: evLocation, Src: []string{string(models.StepAwaitingLocationName)}, Dst: string(models.StepAwaitingAddress)},
			{Name: evAddress, Src: []string{string(models.StepAwaitingAddress)}, Dst: stateRegistered},
		},
		fsm.Callbacks{},
	)
}

type clientState struct {
	registration *fsm.FSM
	pending      *models.PendingSelection
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	clients map[string]*clientState
}

func New() *Store {
	return &Store{clients: map[string]*clientState{}}
}

func (s *Store) stateLocked(clientID string) *clientState {
	st, ok := s.clients[clientID]
	if !ok {
		st = &clientState{}
		s.clients[clientID] = st
	}
	return st
}

// BeginRegistration (re)starts onboarding at the location-name step.
func (s *Store) BeginRegistration(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateLocked(clientID)
	st.registration = newRegistrationFSM()
	st.pending = nil
}

func (s *Store) RegistrationStep(clientID string) models.RegistrationStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.clients[clientID]
	if !ok || st.registration == nil {
		return models.StepNone
	}
	return models.RegistrationStep(st.registration.Current())
}

// Advance moves the registration from step one step forward and returns the
// new step. It fails with ErrStepChanged when the flow is no longer at from.
// StepNone means registration is finished and the flow is dropped.
func (s *Store) Advance(ctx context.Context, clientID string, from models.RegistrationStep) (models.RegistrationStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.clients[clientID]
	if !ok || st.registration == nil {
		return models.StepNone, fmt.Errorf("session: %s: %w", clientID, ErrStepChanged)
	}
	if cur := models.RegistrationStep(st.registration.Current()); cur != from {
		return cur, fmt.Errorf("session: %s at %q, not %q: %w", clientID, cur, from, ErrStepChanged)
	}

	var ev string
	switch models.RegistrationStep(st.registration.Current()) {
	case models.StepAwaitingLocationName:
		ev = evLocation
	case models.StepAwaitingAddress:
		ev = evAddress
	default:
		return models.StepNone, fmt.Errorf("session: unexpected registration state %q", st.registration.Current())
	}
	if err := st.registration.Event(ctx, ev); err != nil {
		return models.StepNone, fmt.Errorf("session: %w", err)
	}
	if st.registration.Current() == stateRegistered {
		st.registration = nil
		s.gcLocked(clientID, st)
		return models.StepNone, nil
	}
	return models.RegistrationStep(st.registration.Current()), nil
}

// SetPending replaces any earlier selection (last selection wins).
func (s *Store) SetPending(clientID string, sel models.PendingSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateLocked(clientID).pending = &sel
}

func (s *Store) Pending(clientID string) (models.PendingSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.clients[clientID]
	if !ok || st.pending == nil {
		return models.PendingSelection{}, false
	}
	return *st.pending, true
}

func (s *Store) ClearPending(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.clients[clientID]
	if !ok {
		return
	}
	st.pending = nil
	s.gcLocked(clientID, st)
}

// ConsumePending clears the pending selection only if it is still sel.
// A newer selection made meanwhile is kept.
func (s *Store) ConsumePending(clientID string, sel models.PendingSelection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.clients[clientID]
	if !ok || st.pending == nil || *st.pending != sel {
		return false
	}
	st.pending = nil
	s.gcLocked(clientID, st)
	return true
}

// Forget drops every transient field of the client.
func (s *Store) Forget(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
}

func (s *Store) gcLocked(clientID string, st *clientState) {
	if st.registration == nil && st.pending == nil {
		delete(s.clients, clientID)
	}
}

// NormalizeInput prepares registration text: NFC, trimmed, non-empty and
// at most MaxInputRunes long.
func NormalizeInput(text string) (string, error) {
	v := strings.TrimSpace(norm.NFC.String(text))
	if v == "" {
		return "", ErrEmptyInput
	}
	if utf8.RuneCountInString(v) > MaxInputRunes {
		return "", ErrInputTooLong
	}
	return v, nil
}
