package domain

import (
	"regexp"
	"time"
)

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is what login returns. No token, no session, just who you are.
type Identity struct {
	AccountID int64  `json:"accountId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// Profile is the singleton row in each tenant store.
type Profile struct {
	DisplayName     string `json:"displayName"`
	Bio             string `json:"bio"`
	MovieWatchTime  int64  `json:"movieWatchTime"`
	SeriesWatchTime int64  `json:"seriesWatchTime"`
}

// MovieListEntry is one watched movie in a tenant store. Rating is nil for
// "watched but not rated", which is a different state from having no entry.
type MovieListEntry struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Rating *int   `json:"rating"`
}

type SeriesListEntry struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Seasons  int    `json:"seasons"`
	Episodes int    `json:"episodes"`
	Rating   *int   `json:"rating"`
}

const (
	UsernameMinLen = 3
	UsernameMaxLen = 20
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername enforces the username contract: 3-20 chars of [A-Za-z0-9_].
// This must run before the username is used for anything, in particular before
// deriving a tenant store location: the charset gate is what keeps path
// traversal out.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLen {
		return &ValidationError{Msg: "username must be at least 3 characters long"}
	}
	if len(username) > UsernameMaxLen {
		return &ValidationError{Msg: "username can't be longer than 20 characters"}
	}
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Msg: "username can only contain letters, numbers, and underscores"}
	}
	return nil
}
