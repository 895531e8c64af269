package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/services"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	ReleasesView
	TrashView
	TicketsView
	ConfirmView
	ExportView
	ResultView
)

// confirmation is a pending destructive action.
type confirmation struct {
	prompt string
	run    tea.Cmd
	back   ViewState
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	svc       *services.Services
	exporter  *tasks.Exporter
	exportDir string

	view   ViewState
	user   *models.User
	styles *Palette
	width  int
	height int

	menu     list.Model
	releases list.Model
	trash    list.Model
	tickets  list.Model

	confirm      *confirmation
	progressChan chan tasks.ProgressUpdate
	resultChan   chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.BulkExportResult

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model. Bulk exports from the releases view are written under exportDir.
func NewModel(ctx context.Context, svc *services.Services, exporter *tasks.Exporter, exportDir string) *Model {
	m := &Model{
		ctx:       ctx,
		svc:       svc,
		exporter:  exporter,
		exportDir: exportDir,
		view:      MenuView,
		styles:    styles,
		help:      help.New(),
		keys:      newKeyMap(),
	}

	m.menu = newList("kedoo", []list.Item{
		menuItem{title: "Releases", desc: "Your releases and their moderation status", view: ReleasesView},
		menuItem{title: "Trash", desc: "Deleted releases", view: TrashView},
		menuItem{title: "Support", desc: "Your tickets", view: TicketsView},
	})
	m.releases = newList("Releases", nil)
	m.trash = newList("Trash", nil)
	m.tickets = newList("Support tickets", nil)
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// State returns the current view.
func (m *Model) State() ViewState { return m.view }

// Init loads the session and the theme.
func (m *Model) Init() tea.Cmd {
	return m.loadSession()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for _, l := range []*list.Model{&m.menu, &m.releases, &m.trash, &m.tickets} {
			l.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case tea.KeyMsg:
		if m.err != nil && m.user == nil {
			return m, tea.Quit
		}
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case ReleasesView:
			return m.handleReleaseKeys(msg)
		case TrashView:
			return m.handleTrashKeys(msg)
		case TicketsView:
			return m.handleTicketKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		if key.Matches(msg, m.keys.quit) && m.view != ExportView {
			return m, tea.Quit
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionLoaded:
		data := msg.data.(sessionData)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.user = data.user
		m.styles = ThemePalette(data.theme)
		m.menu.Title = fmt.Sprintf("kedoo • %s", data.user.Username)
		return m, nil

	case MsgReleasesLoaded:
		data := msg.data.(releasesData)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.releases))
		for i, r := range data.releases {
			items[i] = releaseItem{release: r}
		}
		if data.view == TrashView {
			return m, m.trash.SetItems(items)
		}
		return m, m.releases.SetItems(items)

	case MsgTicketsLoaded:
		data := msg.data.(ticketsData)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.tickets))
		for i, t := range data.tickets {
			items[i] = ticketItem{ticket: t}
		}
		return m, m.tickets.SetItems(items)

	case MsgActionDone:
		data := msg.data.(actionData)
		m.status, m.err = data.status, data.err
		return m, m.load(m.view)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgExportComplete:
		data := msg.data.(exportData)
		m.result, m.err = data.result, data.err
		m.progressChan, m.resultChan = nil, nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.user == nil {
		if errors.Is(m.err, shared.ErrNotAuthenticated) {
			return m.styles.err.Render("Not signed in. Run `kedoo auth login` first.\n\nPress any key to quit")
		}
		return m.styles.err.Render(fmt.Sprintf("Error: %v\n\nPress any key to quit", m.err))
	}

	switch m.view {
	case MenuView:
		return m.renderList(m.menu, m.keys.enter, m.keys.quit)
	case ReleasesView:
		return m.renderList(m.releases, m.keys.del, m.keys.export, m.keys.back, m.keys.quit)
	case TrashView:
		return m.renderList(m.trash, m.keys.restore, m.keys.purge, m.keys.empty, m.keys.back, m.keys.quit)
	case TicketsView:
		return m.renderList(m.tickets, m.keys.toggle, m.keys.back, m.keys.quit)
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// filtering reports whether the active list is capturing keys for its filter input.
func filtering(l list.Model) bool {
	return l.FilterState() == list.Filtering
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !filtering(m.menu) {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.menu.SelectedItem().(menuItem); ok {
				m.view, m.status, m.err = item.view, "", nil
				return m, m.load(item.view)
			}
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

// handleCommonKeys handles quit, back and reload; it reports whether msg was consumed.
func (m *Model) handleCommonKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.back):
		m.view, m.status, m.err = MenuView, "", nil
		return nil, true
	case key.Matches(msg, m.keys.refresh):
		return m.load(m.view), true
	}
	return nil, false
}

func (m *Model) handleReleaseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !filtering(m.releases) {
		if cmd, ok := m.handleCommonKeys(msg); ok {
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.del):
			if item, ok := m.releases.SelectedItem().(releaseItem); ok {
				return m, m.deleteRelease(item.release)
			}
			return m, nil
		case key.Matches(msg, m.keys.export):
			return m, m.startExport()
		}
	}

	var cmd tea.Cmd
	m.releases, cmd = m.releases.Update(msg)
	return m, cmd
}

func (m *Model) handleTrashKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !filtering(m.trash) {
		if cmd, ok := m.handleCommonKeys(msg); ok {
			return m, cmd
		}
		item, selected := m.trash.SelectedItem().(releaseItem)
		switch {
		case key.Matches(msg, m.keys.restore):
			if selected {
				return m, m.restoreRelease(item.release)
			}
			return m, nil
		case key.Matches(msg, m.keys.purge):
			if selected {
				m.askConfirm(fmt.Sprintf("Delete '%s' forever?", item.release.AlbumTitle), m.purgeRelease(item.release))
			}
			return m, nil
		case key.Matches(msg, m.keys.empty):
			if len(m.trash.Items()) > 0 {
				m.askConfirm(fmt.Sprintf("Delete all %d releases in the trash forever?", len(m.trash.Items())), m.emptyTrash())
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.trash, cmd = m.trash.Update(msg)
	return m, cmd
}

func (m *Model) handleTicketKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !filtering(m.tickets) {
		if cmd, ok := m.handleCommonKeys(msg); ok {
			return m, cmd
		}
		if key.Matches(msg, m.keys.toggle) {
			if item, ok := m.tickets.SelectedItem().(ticketItem); ok {
				return m, m.toggleTicket(item.ticket)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tickets, cmd = m.tickets.Update(msg)
	return m, cmd
}

func (m *Model) askConfirm(prompt string, run tea.Cmd) {
	m.confirm = &confirmation{prompt: prompt, run: run, back: m.view}
	m.view = ConfirmView
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		c := m.confirm
		m.view, m.confirm = c.back, nil
		return m, c.run
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view, m.confirm = m.confirm.back, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view, m.result, m.err = ReleasesView, nil, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MenuView:
		m.menu, cmd = m.menu.Update(msg)
	case ReleasesView:
		m.releases, cmd = m.releases.Update(msg)
	case TrashView:
		m.trash, cmd = m.trash.Update(msg)
	case TicketsView:
		m.tickets, cmd = m.tickets.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadSession() tea.Cmd {
	return func() tea.Msg {
		u, err := m.svc.Accounts.Current(m.ctx)
		if err != nil {
			return sessionLoadedMsg(nil, models.Theme{}, err)
		}
		theme, err := m.svc.Settings.Theme(m.ctx)
		return sessionLoadedMsg(u, theme, err)
	}
}

func (m *Model) load(view ViewState) tea.Cmd {
	switch view {
	case ReleasesView:
		return func() tea.Msg {
			releases, err := m.svc.Releases.List(m.ctx, services.ReleaseFilter{})
			return releasesLoadedMsg(ReleasesView, releases, err)
		}
	case TrashView:
		return func() tea.Msg {
			releases, err := m.svc.Trash.List(m.ctx)
			return releasesLoadedMsg(TrashView, releases, err)
		}
	case TicketsView:
		return func() tea.Msg {
			tickets, err := m.svc.Tickets.List(m.ctx)
			return ticketsLoadedMsg(tickets, err)
		}
	}
	return nil
}

func (m *Model) deleteRelease(r models.Release) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.Releases.Delete(m.ctx, r.ID)
		return actionDoneMsg(fmt.Sprintf("Moved '%s' to the trash", r.AlbumTitle), err)
	}
}

func (m *Model) restoreRelease(r models.Release) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.Trash.Restore(m.ctx, r.ID)
		return actionDoneMsg(fmt.Sprintf("Restored '%s'", r.AlbumTitle), err)
	}
}

func (m *Model) purgeRelease(r models.Release) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.Trash.Purge(m.ctx, r.ID)
		return actionDoneMsg(fmt.Sprintf("Deleted '%s' forever", r.AlbumTitle), err)
	}
}

func (m *Model) emptyTrash() tea.Cmd {
	return func() tea.Msg {
		n, err := m.svc.Trash.Empty(m.ctx)
		return actionDoneMsg(fmt.Sprintf("Deleted %d releases forever", n), err)
	}
}

func (m *Model) toggleTicket(t models.Ticket) tea.Cmd {
	return func() tea.Msg {
		if t.Status == models.TicketClosed {
			_, err := m.svc.Tickets.Reopen(m.ctx, t.ID)
			return actionDoneMsg(fmt.Sprintf("Reopened '%s'", t.Subject), err)
		}
		_, err := m.svc.Tickets.Close(m.ctx, t.ID)
		return actionDoneMsg(fmt.Sprintf("Closed '%s'", t.Subject), err)
	}
}

// startExport exports every release in the list as JSON in the background.
func (m *Model) startExport() tea.Cmd {
	items := m.releases.Items()
	if len(items) == 0 || m.exporter == nil {
		return nil
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.(releaseItem).release.ID)
	}

	m.view, m.status, m.err = ExportView, "", nil
	m.progress = tasks.ProgressUpdate{Total: len(ids), Message: "Starting export..."}
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan, m.resultChan = progress, done

	go func() {
		result, err := m.exporter.BulkExport(m.ctx, progress, ids, tasks.BulkExportOpts{
			Format:    formatter.FormatJSON,
			OutputDir: m.exportDir,
		})
		done <- exportCompleteMsg(result, err)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.resultChan
	return func() tea.Msg {
		if progress == nil {
			return exportCompleteMsg(m.result, m.err)
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) footer(bindings ...key.Binding) string {
	out := "\n"
	if m.err != nil {
		out += m.styles.err.Render("Error: "+m.err.Error()) + "\n"
	} else if m.status != "" {
		out += m.styles.ok.Render(m.status) + "\n"
	}
	return out + "\n" + m.help.ShortHelpView(bindings)
}

func (m *Model) renderList(l list.Model, bindings ...key.Binding) string {
	return l.View() + m.footer(bindings...)
}

func (m *Model) renderConfirm() string {
	if m.confirm == nil {
		return ""
	}
	title := m.styles.title.Render(m.confirm.prompt)
	warn := m.styles.warn.Render("This cannot be undone.")
	return fmt.Sprintf("%s\n%s\n\n%s", title, warn, m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
}

func (m *Model) renderExport() string {
	title := m.styles.title.Render("Exporting releases")

	var phase string
	switch m.progress.Phase {
	case tasks.LoadReleases:
		phase = "Loading releases..."
	case tasks.ExportRelease:
		phase = fmt.Sprintf("Exporting (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WriteManifest:
		phase = "Writing manifest..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, m.styles.accent.Render(phase), m.progress.Message)
}

func (m *Model) renderResult() string {
	bindings := []key.Binding{m.keys.back, m.keys.quit}
	if m.err != nil {
		return m.styles.err.Render(fmt.Sprintf("Export failed: %v", m.err)) + "\n\n" + m.help.ShortHelpView(bindings)
	}
	if m.result == nil {
		return m.styles.err.Render("No result available") + "\n\n" + m.help.ShortHelpView(bindings)
	}

	title := m.styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf("\nDirectory: %s\nExported: %d/%d\nManifest: %s",
		m.result.OutputDirectory, m.result.Succeeded, m.result.Total, m.result.ManifestPath)

	var failed string
	if m.result.Failed > 0 {
		failed = "\n\n" + m.styles.warn.Render(fmt.Sprintf("Failed to export %d releases:", m.result.Failed))
		for _, res := range m.result.Results {
			if !res.Success() {
				failed += fmt.Sprintf("\n  • %s: %v", res.Title, res.Err)
			}
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, m.help.ShortHelpView(bindings))
}
