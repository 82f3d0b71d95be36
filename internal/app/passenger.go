package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// PassengerService manages travellers.
type PassengerService struct {
	repo    domain.PassengerRepository
	tickets domain.TicketRepository
	reg     *vo.Registries
}

// NewPassengerService creates a service with the given adapters.
func NewPassengerService(repo domain.PassengerRepository, tickets domain.TicketRepository, reg *vo.Registries) *PassengerService {
	return &PassengerService{repo: repo, tickets: tickets, reg: reg}
}

// Register validates in and stores a new passenger. Passports are unique.
func (s *PassengerService) Register(ctx context.Context, in PassengerInput) (domain.Passenger, error) {
	p, err := s.build(in)
	if err != nil {
		return domain.Passenger{}, err
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Passenger{}, fmt.Errorf("creating passenger: %w", err)
	}
	p.ID = id
	return p, nil
}

// Get returns a passenger by id.
func (s *PassengerService) Get(ctx context.Context, id domain.PassengerID) (domain.Passenger, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByPassport returns the passenger holding passport ("CTY:NUMBER").
func (s *PassengerService) GetByPassport(ctx context.Context, passport string) (domain.Passenger, error) {
	p, err := vo.ParsePassportNumber(passport, s.reg.Passports)
	if err != nil {
		return domain.Passenger{}, err
	}
	return s.repo.FindByPassport(ctx, p)
}

// List returns every passenger.
func (s *PassengerService) List(ctx context.Context) ([]domain.Passenger, error) {
	return s.repo.FindAll(ctx)
}

// Update replaces a passenger's name, passport and contact details.
func (s *PassengerService) Update(ctx context.Context, id domain.PassengerID, in PassengerInput) (domain.Passenger, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return domain.Passenger{}, err
	}
	p, err := s.build(in)
	if err != nil {
		return domain.Passenger{}, err
	}
	p.ID = id

	if err := s.repo.Update(ctx, p); err != nil {
		return domain.Passenger{}, fmt.Errorf("updating passenger: %w", err)
	}
	return p, nil
}

// Delete removes a passenger who holds no active ticket.
func (s *PassengerService) Delete(ctx context.Context, id domain.PassengerID) error {
	held, err := s.tickets.FindByPassenger(ctx, id)
	if err != nil {
		return err
	}
	for _, t := range held {
		if t.Status.HoldsSeat() {
			return domain.Errorf(domain.KindConflict, "passenger %d holds active ticket %s", id, t.Number)
		}
	}
	return s.repo.DeleteByID(ctx, id)
}

func (s *PassengerService) build(in PassengerInput) (domain.Passenger, error) {
	var v fieldErrors
	v.merge(domain.ValidatePassengerName(in.Name))
	passport, err := vo.ParsePassportNumber(in.Passport, s.reg.Passports)
	v.check(err)
	contact, err := vo.ParseContactInfo(in.Contact)
	v.check(err)
	if err := v.err(); err != nil {
		return domain.Passenger{}, err
	}
	return domain.NewPassenger(in.Name, passport, contact)
}
