package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/location"
)

// ParseCommand turns one line of presenter input into a command.
//
//	left | h | p | prev          previous slide or hide a fragment
//	right | l | n | next | ""    next slide or reveal a fragment
//	up | k, down | j             vertical moves
//	goto <row> [column]          jump to a position
//	/<row>[/<column>]            apply a location string (a leading # is allowed)
//	q | quit | exit              ErrQuit
func ParseCommand(line string) (domain.Command, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, location.Prefix) || strings.HasPrefix(line, "#") {
		return domain.Command{Intent: domain.IntentLocation, Location: line}, nil
	}

	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return domain.Command{Intent: domain.IntentRight}, nil
	}

	switch fields[0] {
	case "left", "h", "p", "prev", "previous", "back":
		return domain.Command{Intent: domain.IntentLeft}, nil
	case "right", "l", "n", "next":
		return domain.Command{Intent: domain.IntentRight}, nil
	case "up", "k":
		return domain.Command{Intent: domain.IntentUp}, nil
	case "down", "j":
		return domain.Command{Intent: domain.IntentDown}, nil
	case "q", "quit", "exit":
		return domain.Command{}, ErrQuit
	case "goto", "go", "g":
		return parseGoTo(fields[1:])
	}

	intent, err := domain.ParseIntent(fields[0])
	if err != nil {
		return domain.Command{}, err
	}
	if intent == domain.IntentGoTo {
		return parseGoTo(fields[1:])
	}
	if intent == domain.IntentLocation {
		if len(fields) < 2 {
			return domain.Command{}, fmt.Errorf("location requires an argument")
		}
		return domain.Command{Intent: intent, Location: fields[1]}, nil
	}
	return domain.Command{Intent: intent}, nil
}

func parseGoTo(args []string) (domain.Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return domain.Command{}, fmt.Errorf("usage: goto <row> [column]")
	}
	coords := make([]*int, 2)
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return domain.Command{}, fmt.Errorf("invalid coordinate %q", arg)
		}
		coords[i] = domain.Ptr(n)
	}
	return domain.GoTo(coords[0], coords[1]), nil
}
