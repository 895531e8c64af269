package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionLoaded MsgKind = iota
	MsgReleasesLoaded
	MsgTicketsLoaded
	MsgActionDone
	MsgProgressUpdate
	MsgExportComplete
)

type sessionData struct {
	user  *models.User
	theme models.Theme
	err   error
}

type releasesData struct {
	view     ViewState
	releases []models.Release
	err      error
}

type ticketsData struct {
	tickets []models.Ticket
	err     error
}

type actionData struct {
	status string
	err    error
}

type exportData struct {
	result *tasks.BulkExportResult
	err    error
}

// sessionLoadedMsg is the constructor for [MsgSessionLoaded]
func sessionLoadedMsg(u *models.User, theme models.Theme, err error) Msg {
	return Msg{kind: MsgSessionLoaded, data: sessionData{u, theme, err}}
}

// releasesLoadedMsg is the constructor for [MsgReleasesLoaded]; view tells the active and trash lists apart.
func releasesLoadedMsg(view ViewState, releases []models.Release, err error) Msg {
	return Msg{kind: MsgReleasesLoaded, data: releasesData{view, releases, err}}
}

// ticketsLoadedMsg is the constructor for [MsgTicketsLoaded]
func ticketsLoadedMsg(tickets []models.Ticket, err error) Msg {
	return Msg{kind: MsgTicketsLoaded, data: ticketsData{tickets, err}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(status string, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionData{status, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *tasks.BulkExportResult, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportData{result, err}}
}
