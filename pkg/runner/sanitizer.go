package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Presenter input reaches a session from terminals, JSON lines, HTTP bodies
// and MCP tool arguments. It comes in two shapes: command lines such as
// "goto 2 1" and location strings such as "#/2/1". Both are bounded in size
// and scrubbed of terminal escape sequences before they are parsed.

var (
	// DefaultMaxInputSize is 4KB, far above any command or location.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "LECTERN_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeCommand cleans one presenter command line. Escape sequences and
// control characters are removed and blank runs collapse to a single space,
// so "goto\t2  1\r\n" reads as "goto 2 1".
func SanitizeCommand(line string) (string, error) {
	clean, err := scrub(line)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(clean), " "), nil
}

// SanitizeLocation cleans a location string. A location never holds
// whitespace, so a pasted "#/2/1\x1b[31m\n" becomes "#/2/1".
func SanitizeLocation(loc string) (string, error) {
	clean, err := scrub(loc)
	if err != nil {
		return "", err
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, clean), nil
}

// scrub rejects oversized or malformed input and strips escape sequences and
// non-blank control characters. Oversized input is rejected, never truncated:
// a truncated location would land on another slide.
func scrub(input string) (string, error) {
	if limit := MaxInputSize(); len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, ansi.Strip(input)), nil
}

// MaxInputSize returns the configured input limit in bytes.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
