package constants

import "time"

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// Leaderboard sizing
const (
	// DefaultTopSchoolsLimit is the size of the podium shown next to the signup form
	DefaultTopSchoolsLimit = 3
	// DefaultLeaderboardLimit is the number of schools on the full leaderboard
	DefaultLeaderboardLimit = 10
	// MaxLeaderboardLimit caps any leaderboard request
	MaxLeaderboardLimit = 100
)

// DefaultRequestTimeout bounds a single HTTP request, including its store calls.
const DefaultRequestTimeout = 30 * time.Second
