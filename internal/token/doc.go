// Package token defines the numeric tokens recognised in calibration lines.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Token.Value is 0-9 for Digit and 1-9 for Word.
//   - Tokens may overlap: "oneight" yields Word("one")@0 and Word("eight")@2.
package token
