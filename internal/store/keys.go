package store

import "slices"

// Storage keys. The names match what the browser dashboard wrote to local storage.
const (
	KeyUsers         = "kedoo_users"
	KeyReleases      = "kedoo_releases"
	KeyTickets       = "kedoo_tickets"
	KeyTrash         = "kedoo_trash"
	KeyCurrentUser   = "kedoo_current_user"
	KeyTheme         = "kedoo_theme"
	KeySchemaVersion = "kedoo_schema_version"
)

// Keys lists every key the store reads or writes.
var Keys = []string{KeyUsers, KeyReleases, KeyTickets, KeyTrash, KeyCurrentUser, KeyTheme, KeySchemaVersion}

// IsStoreKey reports whether key is one of [Keys].
func IsStoreKey(key string) bool {
	return slices.Contains(Keys, key)
}

// documentKeys hold JSON documents; the remaining keys hold bare strings.
var documentKeys = []string{KeyUsers, KeyReleases, KeyTickets, KeyTrash, KeyCurrentUser}
