// Package services implements the dashboard workflows on top of the record store.
//
// Each service acts for the user in the session slot unless noted otherwise:
//   - [AccountService] : registration, login, password reset, logout and profile edits
//   - [ReleaseService] : release listing with filters, creation, editing, submission, trash moves and statistics
//   - [TrashService] : restore, permanent deletion and emptying of the trash
//   - [TicketService] : support tickets, newest first
//   - [WalletService] : the mock earnings balance
//   - [SettingsService] : theme selection
//
// Moderator actions ([ReleaseService.Moderate], [TicketService.Respond]) are not bound to the session.
//
// # Error Handling
//
// Services return sentinel errors from the shared package, wrapped with context:
//   - [shared.ErrNotAuthenticated] : no user in the session slot
//   - [shared.ErrForbidden] : the record belongs to another user
//   - [shared.ErrInvalidTransition] : the release or ticket status does not allow the action
//   - [shared.ErrInvalidInput] : a record failed validation
//   - [shared.ErrIncompleteStep] : a form is missing required fields
package services
