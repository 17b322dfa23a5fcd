package driver

import (
	"context"
	"path/filepath"

	"trebuchet/internal/lexer"
	"trebuchet/internal/source"
	"trebuchet/internal/trace"
)

// TokenizeResult holds the per-line tokens of one loaded file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Lines   []lexer.LineTokens
}

// Tokenize loads path and scans every non-empty line. Lines without tokens
// are kept with an empty slice; Tokenize never applies the no-token policy.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	// Создаём FileSet и загружаем файл
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	file := fs.Get(fileID)

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "tokenize", trace.CurrentSpan(ctx)).
		WithExtra("path", path)
	defer span.End("")

	lx := lexer.New(file, lexer.Options{Mode: opts.Mode})
	res := &TokenizeResult{FileSet: fs, File: file}
	for _, ln := range file.Lines() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ln.Span.Empty() {
			continue
		}
		res.Lines = append(res.Lines, lexer.LineTokens{Line: ln, Tokens: lx.ScanLine(ln)})
	}
	return res, nil
}
