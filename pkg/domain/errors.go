package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownIntent is returned when a navigation intent cannot be parsed.
var ErrUnknownIntent = errors.New("unknown intent")

// ErrEmptyDeck is returned when a deck source yields no slides.
var ErrEmptyDeck = errors.New("deck has no slides")

// ErrSessionClosed is returned when a command targets a session that has exited.
var ErrSessionClosed = errors.New("session closed")
