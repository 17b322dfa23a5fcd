package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"trebuchet/internal/lexer"
	"trebuchet/internal/source"
)

type TokenOutput struct {
	Kind  string      `json:"kind"`
	Text  string      `json:"text"`
	Value uint8       `json:"value"`
	Col   uint32      `json:"col"` // 1-based, в байтах
	Span  source.Span `json:"span"`
}

type LineOutput struct {
	Line   uint32        `json:"line"`
	Text   string        `json:"text"`
	Tokens []TokenOutput `json:"tokens"`
}

// FormatTokensPretty выводит токены построчно в человекочитаемом формате
func FormatTokensPretty(w io.Writer, file *source.File, lines []lexer.LineTokens) error {
	for _, lt := range lines {
		if _, err := fmt.Fprintf(w, "%4d | %s\n", lt.Line.Num, file.Text(lt.Line.Span)); err != nil {
			return err
		}
		if len(lt.Tokens) == 0 {
			if _, err := fmt.Fprintln(w, "       (no tokens)"); err != nil {
				return err
			}
			continue
		}
		for i, tok := range lt.Tokens {
			col := tok.Span.Start - lt.Line.Span.Start + 1
			if _, err := fmt.Fprintf(w, "     %3d: %-5s %-7q value=%d col=%d\n",
				i+1, tok.Kind.String(), tok.Text, tok.Value, col); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildTokensOutput формирует структуру JSON-вывода токенов.
func BuildTokensOutput(file *source.File, lines []lexer.LineTokens) []LineOutput {
	output := make([]LineOutput, 0, len(lines))
	for _, lt := range lines {
		lo := LineOutput{
			Line:   lt.Line.Num,
			Text:   file.Text(lt.Line.Span),
			Tokens: make([]TokenOutput, 0, len(lt.Tokens)),
		}
		for _, tok := range lt.Tokens {
			lo.Tokens = append(lo.Tokens, TokenOutput{
				Kind:  tok.Kind.String(),
				Text:  tok.Text,
				Value: tok.Value,
				Col:   tok.Span.Start - lt.Line.Span.Start + 1,
				Span:  tok.Span,
			})
		}
		output = append(output, lo)
	}
	return output
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, file *source.File, lines []lexer.LineTokens) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensOutput(file, lines))
}
