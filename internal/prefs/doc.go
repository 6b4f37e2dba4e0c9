// Package prefs persists the onboarding flags across sessions.
//
// Flags live in a small SQLite database in the state directory. Only the two
// known tour flags are accepted; queues themselves are never persisted.
package prefs
