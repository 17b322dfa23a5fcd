package calibration

import (
	"cmp"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"trebuchet/internal/lexer"
	"trebuchet/internal/source"
	"trebuchet/internal/token"
)

// Bounds returns the tokens with the smallest and largest start offset.
// With a single token first and last are the same token.
func Bounds(tokens []token.Token) (first, last token.Token, err error) {
	if len(tokens) == 0 {
		return token.Token{}, token.Token{}, ErrNoToken
	}
	sorted := slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b token.Token) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	return sorted[0], sorted[len(sorted)-1], nil
}

// Combine builds the two-digit value from the first and last token.
func Combine(first, last token.Token) int {
	return int(first.Value)*10 + int(last.Value)
}

// LineValue extracts the calibration value of a single line.
// It has no side effects; calling it twice yields the same result.
func LineValue(line string, mode lexer.Mode) (int, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("line", []byte(line)))
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return 0, fmt.Errorf("line too long: %w", err)
	}
	ln := source.Line{Num: 1, Span: source.Span{File: file.ID, End: end}}

	first, last, err := Bounds(lexer.New(file, lexer.Options{Mode: mode}).ScanLine(ln))
	if err != nil {
		return 0, &NoTokenError{Line: 1, Text: line}
	}
	return Combine(first, last), nil
}
