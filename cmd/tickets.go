package main

import (
	"context"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/urfave/cli/v3"
)

// TicketsOpen files a support ticket.
func (r *Runner) TicketsOpen(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	t, err := svc.Tickets.Open(ctx, cmd.String("subject"), cmd.String("message"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Ticket %s opened\n", t.ID)
}

// TicketsList prints the signed-in user's tickets, newest first.
func (r *Runner) TicketsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	tickets, err := svc.Tickets.List(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(tickets, cmd.Bool("pretty"))
	}
	if len(tickets) == 0 {
		return r.writePlain("No tickets\n")
	}

	for _, t := range tickets {
		mark := "○"
		if t.Status == models.TicketClosed {
			mark = "●"
		}
		r.writePlain("%s %s  %s  [%s] %s\n", mark, t.Date, t.ID, t.Status, t.Subject)
		r.writePlain("    %s\n", t.Message)
		if t.Response != "" {
			r.writePlain("    ↳ %s\n", t.Response)
		}
	}
	return nil
}

// TicketsRespond stores a support response on a ticket.
func (r *Runner) TicketsRespond(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.Tickets.Respond(ctx, id, cmd.String("message")); err != nil {
		return err
	}
	return r.writePlain("✓ Response recorded on %s\n", id)
}

// TicketsClose closes an open ticket.
func (r *Runner) TicketsClose(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.Tickets.Close(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Closed %s\n", id)
}

// TicketsReopen reopens a closed ticket.
func (r *Runner) TicketsReopen(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.Tickets.Reopen(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Reopened %s\n", id)
}
