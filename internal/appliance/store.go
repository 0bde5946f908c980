package appliance

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wattwise/usage-engine/internal/model"
)

// ErrNotFound is returned by Update when no appliance has the given id.
var ErrNotFound = errors.New("appliance not found")

// ValidationError rejects out-of-range user input before it reaches the
// collection. The message is safe to surface to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Persistence is the external storage port. Implementations persist the full
// collection on every mutation, last-write-wins. Read failures degrade to an
// empty collection; write failures are logged by the store and never
// propagated, since in-memory state stays authoritative for the session.
type Persistence interface {
	LoadAppliances() ([]model.Appliance, error)
	SaveAppliances([]model.Appliance) error
	LoadOnboarding() (bool, error)
	SaveOnboarding(bool) error
}

// Input carries the user-editable appliance fields.
type Input struct {
	Name         string  `json:"name"`
	PowerWatts   float64 `json:"power_watts"`
	HoursPerDay  float64 `json:"hours_per_day"`
	DaysPerMonth float64 `json:"days_per_month"`
}

// Store owns the canonical appliance collection. Mutations swap in a fresh
// slice, so snapshots handed to readers are never modified afterwards.
type Store struct {
	mu         sync.RWMutex
	appliances []model.Appliance
	onboarded  bool
	persist    Persistence
}

func NewStore(persist Persistence) *Store {
	s := &Store{persist: persist}

	appliances, err := persist.LoadAppliances()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load appliances, starting with empty collection")
		appliances = nil
	}
	s.appliances = appliances

	onboarded, err := persist.LoadOnboarding()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load onboarding flag, assuming incomplete")
		onboarded = false
	}
	s.onboarded = onboarded

	return s
}

// Snapshot returns a copy of the current collection. Callers may hold it
// across mutations; it will not change underneath them.
func (s *Store) Snapshot() []model.Appliance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Appliance, len(s.appliances))
	copy(out, s.appliances)
	return out
}

// Add validates the input, assigns a fresh id and the given creation
// instant, and appends the new appliance.
func (s *Store) Add(in Input, now time.Time) (model.Appliance, error) {
	if err := validate(in); err != nil {
		return model.Appliance{}, err
	}

	a := model.Appliance{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		PowerWatts:   in.PowerWatts,
		HoursPerDay:  in.HoursPerDay,
		DaysPerMonth: in.DaysPerMonth,
		CreatedAt:    now,
	}

	s.mu.Lock()
	next := make([]model.Appliance, len(s.appliances), len(s.appliances)+1)
	copy(next, s.appliances)
	s.appliances = append(next, a)
	s.save()
	s.mu.Unlock()

	log.Info().Str("appliance_id", a.ID).Str("name", a.Name).Msg("Appliance added")
	return a, nil
}

// Update replaces the user-editable fields of an existing appliance,
// preserving its id and creation timestamp.
func (s *Store) Update(id string, in Input) (model.Appliance, error) {
	if err := validate(in); err != nil {
		return model.Appliance{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, a := range s.appliances {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.Appliance{}, ErrNotFound
	}

	next := make([]model.Appliance, len(s.appliances))
	copy(next, s.appliances)

	next[idx].Name = strings.TrimSpace(in.Name)
	next[idx].PowerWatts = in.PowerWatts
	next[idx].HoursPerDay = in.HoursPerDay
	next[idx].DaysPerMonth = in.DaysPerMonth

	s.appliances = next
	s.save()

	log.Info().Str("appliance_id", id).Msg("Appliance updated")
	return next[idx], nil
}

// Delete removes the appliance with the given id. Deleting an absent id is
// a no-op, not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Appliance, 0, len(s.appliances))
	for _, a := range s.appliances {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if len(next) == len(s.appliances) {
		return
	}

	s.appliances = next
	s.save()

	log.Info().Str("appliance_id", id).Msg("Appliance deleted")
}

func (s *Store) HasCompletedOnboarding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onboarded
}

func (s *Store) CompleteOnboarding() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.onboarded {
		return
	}
	s.onboarded = true
	if err := s.persist.SaveOnboarding(true); err != nil {
		log.Warn().Err(err).Msg("Failed to persist onboarding flag")
	}
}

// save writes the current collection through the port. Caller holds the
// write lock.
func (s *Store) save() {
	if err := s.persist.SaveAppliances(s.appliances); err != nil {
		log.Warn().Err(err).Msg("Failed to persist appliances")
	}
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be blank"}
	}
	if in.PowerWatts <= 0 {
		return &ValidationError{Field: "power_watts", Message: "must be a positive number"}
	}
	if in.HoursPerDay < 0 || in.HoursPerDay > 24 {
		return &ValidationError{Field: "hours_per_day", Message: "must be between 0 and 24"}
	}
	if in.DaysPerMonth < 0 || in.DaysPerMonth > 31 {
		return &ValidationError{Field: "days_per_month", Message: "must be between 0 and 31"}
	}
	return nil
}
