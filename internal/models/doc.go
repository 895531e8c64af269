// Package models defines the records persisted by the kedoo record store.
//
// The records mirror the JSON documents the dashboard keeps under its storage keys:
//   - [User] : account with email, username and a plaintext password
//   - [Release] : album submission with its [Track] list and moderation [ReleaseStatus]
//   - [Ticket] : support request with a moderator response
//
// Supporting values:
//   - [Theme] : colour theme ids selectable in settings
//   - [Wallet] : mock balance shown on the wallet page
//
// Partial updates are expressed with [UserPatch], [ReleasePatch] and [TicketPatch], whose nil fields leave
// the record untouched. All records implement [Record] so the store can handle them generically.
package models
