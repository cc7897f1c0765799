package domain

import (
	"fmt"
	"strings"
)

// Intent is a navigation request issued by the user or a host.
type Intent string

const (
	IntentLeft  Intent = "left"
	IntentRight Intent = "right"
	IntentUp    Intent = "up"
	IntentDown  Intent = "down"
	IntentGoTo  Intent = "goto"

	// IntentLocation applies an externally changed location string.
	IntentLocation Intent = "location"
)

// ParseIntent normalizes a textual intent.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentLeft:
		return IntentLeft, nil
	case IntentRight:
		return IntentRight, nil
	case IntentUp:
		return IntentUp, nil
	case IntentDown:
		return IntentDown, nil
	case IntentGoTo, "go_to", "moveto":
		return IntentGoTo, nil
	case IntentLocation:
		return IntentLocation, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIntent, s)
}

// Command is an intent plus its arguments.
// Row and Column are only read for IntentGoTo; nil keeps the current value.
// Location is only read for IntentLocation.
type Command struct {
	Intent   Intent `json:"intent"`
	Row      *int   `json:"row,omitempty"`
	Column   *int   `json:"column,omitempty"`
	Location string `json:"location,omitempty"`
}

// GoTo builds an IntentGoTo command.
func GoTo(row, column *int) Command {
	return Command{Intent: IntentGoTo, Row: row, Column: column}
}

// Ptr is a helper for optional coordinates.
func Ptr(v int) *int {
	return &v
}
