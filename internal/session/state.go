// Package session holds the signed-in user and bearer token, mirrors them
// into durable storage and publishes every change to subscribers.
package session

import "github.com/anayy09/AcademiaFlow/internal/model"

// State is an immutable snapshot of the session. Treat User as read-only:
// the store replaces whole states and never mutates a published one.
type State struct {
	User            *model.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// initialState is the state before Initialize has run.
func initialState() State {
	return State{IsLoading: true}
}

// emptyState is the signed-out state once loading has finished.
func emptyState() State {
	return State{}
}

func authenticatedState(user model.User, token string) State {
	return State{
		User:            &user,
		Token:           token,
		IsAuthenticated: true,
		IsLoading:       false,
	}
}
