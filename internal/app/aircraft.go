package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// AircraftService manages the fleet.
type AircraftService struct {
	repo      domain.AircraftRepository
	inventory *SeatInventory
	reg       *vo.Registries
}

// NewAircraftService creates a service with the given adapters.
func NewAircraftService(repo domain.AircraftRepository, inventory *SeatInventory, reg *vo.Registries) *AircraftService {
	return &AircraftService{repo: repo, inventory: inventory, reg: reg}
}

// Register validates in and stores a new aircraft.
func (s *AircraftService) Register(ctx context.Context, in AircraftInput) (domain.Aircraft, error) {
	aircraft, err := s.build(in)
	if err != nil {
		return domain.Aircraft{}, err
	}

	id, err := s.repo.Create(ctx, aircraft)
	if err != nil {
		return domain.Aircraft{}, fmt.Errorf("creating aircraft: %w", err)
	}
	aircraft.ID = id
	return aircraft, nil
}

// Get returns an aircraft by id.
func (s *AircraftService) Get(ctx context.Context, id domain.AircraftID) (domain.Aircraft, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySerial returns the aircraft registered under serial.
func (s *AircraftService) GetBySerial(ctx context.Context, serial string) (domain.Aircraft, error) {
	sn, err := vo.ParseAircraftSerial(serial)
	if err != nil {
		return domain.Aircraft{}, err
	}
	return s.repo.FindBySerial(ctx, sn)
}

// List returns every aircraft.
func (s *AircraftService) List(ctx context.Context) ([]domain.Aircraft, error) {
	return s.repo.FindAll(ctx)
}

// Count returns the fleet size.
func (s *AircraftService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// SeatClasses lists the classes the aircraft offers with their seat counts.
func (s *AircraftService) SeatClasses(ctx context.Context, id domain.AircraftID) ([]vo.SeatCount, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]vo.SeatCount, 0, len(a.Layout.Counts()))
	for _, c := range a.Layout.Counts() {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

// Update replaces the aircraft's attributes. A new layout is refused while
// any flight of the aircraft holds a reservation the layout lacks.
func (s *AircraftService) Update(ctx context.Context, id domain.AircraftID, in AircraftInput) (domain.Aircraft, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Aircraft{}, err
	}
	next, err := s.build(in)
	if err != nil {
		return domain.Aircraft{}, err
	}
	next.ID = current.ID

	if !next.Layout.Equal(current.Layout) {
		if err := s.checkLayoutChange(ctx, id, next.Layout); err != nil {
			return domain.Aircraft{}, err
		}
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return domain.Aircraft{}, fmt.Errorf("updating aircraft: %w", err)
	}
	return next, nil
}

// Delete removes an aircraft no flight refers to.
func (s *AircraftService) Delete(ctx context.Context, id domain.AircraftID) error {
	flights, err := s.inventory.FindFlightsByAircraft(ctx, id)
	if err != nil {
		return err
	}
	if len(flights) > 0 {
		return domain.Errorf(domain.KindConflict, "aircraft %d is assigned to %d flights", id, len(flights))
	}
	return s.repo.DeleteByID(ctx, id)
}

func (s *AircraftService) checkLayoutChange(ctx context.Context, id domain.AircraftID, layout vo.SeatClassMap) error {
	flights, err := s.inventory.FindFlightsByAircraft(ctx, id)
	if err != nil {
		return err
	}
	for _, f := range flights {
		seat, ok, err := s.inventory.fitsLayout(ctx, f.ID, layout)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Errorf(domain.KindConflict,
				"layout %s drops seat %s reserved on flight %s (%d)", layout, seat, f.Number, f.ID)
		}
	}
	return nil
}

func (s *AircraftService) build(in AircraftInput) (domain.Aircraft, error) {
	var v fieldErrors
	serial, err := vo.ParseAircraftSerial(in.Serial)
	v.check(err)
	v.merge(domain.ValidateAircraftModel(in.Model))
	layout, err := vo.ParseSeatClassMap(in.Layout, s.reg.SeatClasses)
	v.check(err)
	if err := v.err(); err != nil {
		return domain.Aircraft{}, err
	}
	return domain.NewAircraft(serial, in.Model, layout)
}
