package lexer

import (
	"trebuchet/internal/source"
	"trebuchet/internal/token"
)

// Lexer finds numeric tokens inside one line of a file at a time.
// The window slides one byte per step, so overlapping words are all reported.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

// New creates a lexer over the whole file. Use Reset to narrow it to a line.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Reset restarts scanning inside sp.
func (lx *Lexer) Reset(sp source.Span) {
	lx.cursor.Window(sp)
}

// Next возвращает следующий токен в окне.
// ok == false означает, что окно исчерпано.
func (lx *Lexer) Next() (tok token.Token, ok bool) {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		tok, ok = lx.match()
		// сдвиг всегда на один байт: "oneight" должен дать и one, и eight
		lx.cursor.Reset(start)
		lx.cursor.Bump()
		if ok {
			return tok, true
		}
	}
	return token.Token{}, false
}

// ScanLine returns every token of ln in ascending start order.
func (lx *Lexer) ScanLine(ln source.Line) []token.Token {
	lx.Reset(ln.Span)
	var tokens []token.Token
	for {
		tok, ok := lx.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// match tests every pattern at the current offset. At most one pattern can
// start at a given byte: digits and words begin with disjoint bytes and no
// number word is a prefix of another.
func (lx *Lexer) match() (token.Token, bool) {
	ch := lx.cursor.Peek()
	if isDec(ch) {
		return lx.scanDigit(), true
	}
	if lx.opts.words() && isWordStart(ch) {
		return lx.scanWord()
	}
	return token.Token{}, false
}

func (lx *Lexer) scanDigit() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Digit, Span: sp, Text: lx.file.Text(sp), Value: b - '0'}
}

func (lx *Lexer) scanWord() (token.Token, bool) {
	for _, w := range token.NumberWords() {
		if !lx.cursor.HasPrefix(w.Text) {
			continue
		}
		start := lx.cursor.Mark()
		for range len(w.Text) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Word, Span: sp, Text: w.Text, Value: w.Value}, true
	}
	return token.Token{}, false
}

// LineTokens holds the tokens found on one line.
type LineTokens struct {
	Line   source.Line
	Tokens []token.Token
}
