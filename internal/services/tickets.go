package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// TicketService handles support tickets.
type TicketService struct {
	store  RecordStore
	logger *log.Logger
}

func NewTicketService(st RecordStore, logger *log.Logger) *TicketService {
	return &TicketService{store: st, logger: shared.WithLogger(logger, "service", "tickets")}
}

// Open files a ticket for the signed-in user. Subject and message are both required.
func (t *TicketService) Open(ctx context.Context, subject, message string) (*models.Ticket, error) {
	u, err := session(ctx, t.store)
	if err != nil {
		return nil, err
	}

	subject, message = strings.TrimSpace(subject), strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, shared.ErrIncompleteStep
	}

	ticket := &models.Ticket{
		ID:      shared.GenerateID(),
		UserID:  u.ID,
		Subject: subject,
		Message: message,
		Status:  models.TicketOpen,
		Date:    shared.Today(),
	}
	if err := ticket.Validate(); err != nil {
		return nil, err
	}
	if err := t.store.SaveTicket(ctx, ticket); err != nil {
		return nil, err
	}

	t.logger.Info("ticket opened", "id", ticket.ID)
	return ticket, nil
}

// List returns the signed-in user's tickets, newest first.
func (t *TicketService) List(ctx context.Context) ([]models.Ticket, error) {
	u, err := session(ctx, t.store)
	if err != nil {
		return nil, err
	}
	tickets, err := t.store.Tickets(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(tickets)
	return tickets, nil
}

// Respond records a moderator answer. Like [ReleaseService.Moderate] it does not use the session.
func (t *TicketService) Respond(ctx context.Context, id, response string) (*models.Ticket, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("%w: response", shared.ErrMissingArgument)
	}
	updated, err := t.store.UpdateTicket(ctx, id, models.TicketPatch{Response: &response})
	if err != nil {
		return nil, err
	}
	t.logger.Info("ticket answered", "id", id)
	return updated, nil
}

// Close closes an open ticket. Status changes are moderator actions and, like [TicketService.Respond],
// do not use the session.
func (t *TicketService) Close(ctx context.Context, id string) (*models.Ticket, error) {
	return t.setStatus(ctx, id, models.TicketOpen, models.TicketClosed)
}

// Reopen reopens a closed ticket.
func (t *TicketService) Reopen(ctx context.Context, id string) (*models.Ticket, error) {
	return t.setStatus(ctx, id, models.TicketClosed, models.TicketOpen)
}

func (t *TicketService) setStatus(ctx context.Context, id string, from, to models.TicketStatus) (*models.Ticket, error) {
	ticket, err := t.store.Ticket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status != from {
		return nil, fmt.Errorf("%w: ticket is already %s", shared.ErrInvalidTransition, ticket.Status)
	}

	updated, err := t.store.UpdateTicket(ctx, id, models.TicketPatch{Status: &to})
	if err != nil {
		return nil, err
	}
	t.logger.Info("ticket status changed", "id", id, "status", to)
	return updated, nil
}
