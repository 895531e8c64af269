// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the signed-in user's data:
//  1. [MenuView] : Pick a section
//  2. [ReleasesView] : Browse active releases, move them to the trash, export them all
//  3. [TrashView] : Restore, delete forever or empty the trash
//  4. [TicketsView] : Browse support tickets, close or reopen them
//  5. [ConfirmView] : Confirm destructive operations
//  6. [ExportView] and [ResultView] : Monitor a bulk export and show its summary
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Export progress flows through a channel from the tasks Exporter, providing non-blocking status reporting.
//
// Colours come from the selected theme's gradient. Keyboard navigation uses the bubbles list bindings plus
// single-letter actions with contextual help displayed via charmbracelet/bubbles/help.
package ui
