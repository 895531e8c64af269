package store

import (
	"context"
	"fmt"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Tickets returns the tickets of userID in creation order, or every ticket when userID is empty.
func (s *Store) Tickets(ctx context.Context, userID string) ([]models.Ticket, error) {
	return list[models.Ticket](ctx, s, KeyTickets, userID)
}

// Ticket returns the ticket with id.
func (s *Store) Ticket(ctx context.Context, id string) (*models.Ticket, error) {
	return find[models.Ticket](ctx, s, KeyTickets, id, shared.ErrTicketNotFound)
}

// SaveTicket appends t. An empty id is generated and an empty date is set to today.
func (s *Store) SaveTicket(ctx context.Context, t *models.Ticket) error {
	if t.ID == "" {
		t.ID = shared.GenerateID()
	}
	if t.Date == "" {
		t.Date = s.timestamp().Format(shared.DateLayout)
	}

	return s.backend.Update(ctx, func(tx Tx) error {
		tickets, err := editList[models.Ticket](tx, KeyTickets)
		if err != nil {
			return err
		}
		if indexOf(tickets, t.ID) >= 0 {
			return fmt.Errorf("%w: ticket %s", shared.ErrDuplicateID, t.ID)
		}
		return writeList(tx, KeyTickets, append(tickets, *t))
	})
}

// UpdateTicket merges patch into the ticket with id and returns the result.
func (s *Store) UpdateTicket(ctx context.Context, id string, patch models.TicketPatch) (*models.Ticket, error) {
	return update[models.Ticket](ctx, s, KeyTickets, id, shared.ErrTicketNotFound, patch.Apply)
}
