package token

import (
	"trebuchet/internal/source"
)

// Token is one numeric occurrence inside a line.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Value uint8
}

// IsDigit reports whether the token is a single digit character.
func (t Token) IsDigit() bool { return t.Kind == Digit }

// IsWord reports whether the token is a spelled-out number.
func (t Token) IsWord() bool { return t.Kind == Word }

// Before orders tokens by start offset.
func (t Token) Before(other Token) bool {
	return t.Span.Start < other.Span.Start
}
