package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/kedoo/internal/shared"
)

// TicketStatus is either open or closed.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// ParseTicketStatus converts a user-supplied name into a [TicketStatus].
func ParseTicketStatus(s string) (TicketStatus, error) {
	switch status := TicketStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case TicketOpen, TicketClosed:
		return status, nil
	}
	return "", fmt.Errorf("%w: unknown ticket status %q", shared.ErrInvalidArgument, s)
}

// Label returns the badge text for the status.
func (s TicketStatus) Label() string {
	if s == TicketClosed {
		return "Closed"
	}
	return "Open"
}

// Ticket is a support request. Status and response are changed by a moderator.
type Ticket struct {
	ID       string       `json:"id" validate:"required"`
	UserID   string       `json:"userId" validate:"required"`
	Subject  string       `json:"subject" validate:"required"`
	Message  string       `json:"message" validate:"required"`
	Status   TicketStatus `json:"status" validate:"oneof=open closed"`
	Date     string       `json:"date" validate:"datetime=2006-01-02"`
	Response string       `json:"response,omitempty"`
}

var _ Record = (*Ticket)(nil)

func (t *Ticket) RecordID() string { return t.ID }
func (t *Ticket) Owner() string    { return t.UserID }
func (t *Ticket) Validate() error  { return validateStruct(t) }

// Answered reports whether a moderator has responded.
func (t *Ticket) Answered() bool { return t.Response != "" }

// TicketPatch is a partial update for [Ticket]. Nil fields are left unchanged.
type TicketPatch struct {
	Subject  *string       `json:"subject,omitempty"`
	Message  *string       `json:"message,omitempty"`
	Status   *TicketStatus `json:"status,omitempty"`
	Response *string       `json:"response,omitempty"`
}

// Apply merges the non-nil fields of p into t.
func (p TicketPatch) Apply(t *Ticket) {
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.Message != nil {
		t.Message = *p.Message
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Response != nil {
		t.Response = *p.Response
	}
}

// Empty reports whether the patch changes nothing.
func (p TicketPatch) Empty() bool {
	return p == TicketPatch{}
}
