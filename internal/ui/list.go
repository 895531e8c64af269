package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

var (
	_ list.Item = menuItem{}
	_ list.Item = releaseItem{}
	_ list.Item = ticketItem{}
)

// menuItem is an entry of the main menu leading to view.
type menuItem struct {
	title, desc string
	view        ViewState
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

// releaseItem wraps [models.Release] to implement [list.Item]. Trashed releases show their deletion date.
type releaseItem struct {
	release models.Release
}

func (i releaseItem) FilterValue() string { return i.release.AlbumTitle + " " + i.release.Artists() }
func (i releaseItem) Title() string       { return i.release.AlbumTitle }
func (i releaseItem) Description() string {
	desc := fmt.Sprintf("%s • %d tracks", i.release.Status.Label(), len(i.release.Tracks))
	if artists := i.release.Artists(); artists != "" {
		desc = artists + " • " + desc
	}
	if !i.release.DeletedAt.IsZero() {
		desc = fmt.Sprintf("%s • deleted %s", desc, i.release.DeletedAt.Format(shared.DateLayout))
	}
	return desc
}

// ticketItem wraps [models.Ticket] to implement [list.Item].
type ticketItem struct {
	ticket models.Ticket
}

func (i ticketItem) FilterValue() string { return i.ticket.Subject }
func (i ticketItem) Title() string {
	return fmt.Sprintf("[%s] %s", i.ticket.Status.Label(), i.ticket.Subject)
}
func (i ticketItem) Description() string {
	if i.ticket.Answered() {
		return fmt.Sprintf("%s • answered: %s", i.ticket.Date, i.ticket.Response)
	}
	return fmt.Sprintf("%s • %s", i.ticket.Date, i.ticket.Message)
}
