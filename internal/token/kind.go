package token

// Kind represents the category of a numeric token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// Digit is a single ASCII digit '0'..'9'.
	Digit
	// Word is a spelled-out number "one".."nine".
	Word
)

func (k Kind) String() string {
	switch k {
	case Digit:
		return "Digit"
	case Word:
		return "Word"
	default:
		return "Invalid"
	}
}
