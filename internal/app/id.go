package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// maxIssueAttempts bounds how often issueTicket retries after another
// booking took the serial it picked.
const maxIssueAttempts = 5

// issueTicket numbers and stores ticket. The serial starts after the
// flight's existing tickets and moves up whenever the store reports the
// number as taken.
func issueTicket(ctx context.Context, tickets domain.TicketRepository, flight domain.Flight, ticket domain.Ticket) (domain.Ticket, error) {
	existing, err := tickets.FindByFlight(ctx, flight.ID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("counting tickets of flight %d: %w", flight.ID, err)
	}

	serial := len(existing) + 1
	for attempt := 0; attempt < maxIssueAttempts; attempt, serial = attempt+1, serial+1 {
		number, err := vo.NewTicketNumber(flight.Number, ticket.BookedAt, serial)
		if err != nil {
			return domain.Ticket{}, domain.Errorf(domain.KindConflict, "flight %d has no ticket serials left", flight.ID)
		}
		ticket.Number = number

		id, err := tickets.Create(ctx, ticket)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return domain.Ticket{}, err
		}
		ticket.ID = id
		return ticket, nil
	}
	return domain.Ticket{}, domain.Errorf(domain.KindConflict,
		"could not issue a ticket number for flight %d after %d attempts", flight.ID, maxIssueAttempts)
}
