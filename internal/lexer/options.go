package lexer

import (
	"fmt"
	"strings"
)

// Mode selects which numeric tokens the lexer recognises.
type Mode uint8

const (
	// ModeDigits recognises only '0'..'9'.
	ModeDigits Mode = iota + 1
	// ModeWords recognises digits and the words "one".."nine".
	ModeWords
)

func (m Mode) String() string {
	switch m {
	case ModeDigits:
		return "digits"
	case ModeWords:
		return "words"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "digits", "digits_only", "digits-only", "part1":
		return ModeDigits, nil
	case "words", "digits_and_words", "digits-and-words", "part2":
		return ModeWords, nil
	default:
		return 0, fmt.Errorf("invalid mode: %q (expected: digits|words)", s)
	}
}

// Options configures a Lexer.
type Options struct {
	Mode Mode // ноль трактуется как ModeDigits
}

func (o Options) words() bool {
	return o.Mode == ModeWords
}
