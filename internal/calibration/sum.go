package calibration

import (
	"context"
	"fmt"
	"strconv"

	"trebuchet/internal/diag"
	"trebuchet/internal/lexer"
	"trebuchet/internal/source"
	"trebuchet/internal/token"
	"trebuchet/internal/trace"
)

// LineResult is the outcome for one non-empty line.
type LineResult struct {
	Line   uint32 // 1-based
	Span   source.Span
	First  token.Token
	Last   token.Token
	Tokens int
	Value  int
}

// Result is the outcome for a whole input.
type Result struct {
	Total int
	Lines []LineResult
}

// Options configures SumFile.
type Options struct {
	Mode     lexer.Mode
	Reporter diag.Reporter // может быть nil
}

// Sum splits text on '\n', skips empty lines and adds up every line value.
func Sum(text string, mode lexer.Mode) (int, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("input", []byte(text)))
	res, err := SumFile(context.Background(), file, Options{Mode: mode})
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// SumFile folds every non-empty line of file into a total.
// The first failing line aborts the run; no partial total is returned.
// Per-line and per-token events go to the tracer carried by ctx.
func SumFile(ctx context.Context, file *source.File, opts Options) (Result, error) {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	lx := lexer.New(file, lexer.Options{Mode: opts.Mode})
	var res Result
	for _, ln := range file.Lines() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if ln.Span.Empty() {
			continue
		}

		tokens := lx.ScanLine(ln)
		if tracer.Level() >= trace.LevelDebug {
			for _, tok := range tokens {
				trace.Point(tracer, trace.ScopeToken, "token", tok.Text, parent, map[string]string{
					"kind":  tok.Kind.String(),
					"line":  strconv.FormatUint(uint64(ln.Num), 10),
					"start": strconv.FormatUint(uint64(tok.Span.Start-ln.Span.Start), 10),
					"value": strconv.Itoa(int(tok.Value)),
				})
			}
		}

		first, last, err := Bounds(tokens)
		if err != nil {
			text := file.Text(ln.Span)
			diag.ReportError(reporter, diag.CalNoNumericToken, ln.Span,
				fmt.Sprintf("no %s found in line %d", describe(opts.Mode), ln.Num)).
				WithNote(ln.Span, "every non-empty line must contain at least one numeric token").
				Emit()
			trace.Point(tracer, trace.ScopeLine, "line", text, parent, map[string]string{
				"line":  strconv.FormatUint(uint64(ln.Num), 10),
				"error": "no-token",
			})
			return Result{}, &NoTokenError{Line: ln.Num, Text: text}
		}

		value := Combine(first, last)
		res.Total += value
		res.Lines = append(res.Lines, LineResult{
			Line:   ln.Num,
			Span:   ln.Span,
			First:  first,
			Last:   last,
			Tokens: len(tokens),
			Value:  value,
		})
		if tracer.Level() >= trace.LevelDetail {
			trace.Point(tracer, trace.ScopeLine, "line", file.Text(ln.Span), parent, map[string]string{
				"line":  strconv.FormatUint(uint64(ln.Num), 10),
				"first": first.Text,
				"last":  last.Text,
				"value": strconv.Itoa(value),
			})
		}
	}

	if len(res.Lines) == 0 {
		diag.ReportError(reporter, diag.CalEmptyInput, source.Span{File: file.ID}, "input has no non-empty lines").Emit()
		return Result{}, ErrEmptyInput
	}
	return res, nil
}

func describe(mode lexer.Mode) string {
	if mode == lexer.ModeWords {
		return "digit or number word"
	}
	return "digit"
}
