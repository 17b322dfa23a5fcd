package diagfmt

import (
	"fmt"

	"trebuchet/internal/source"
)

// formatPath renders the path of f according to mode.
func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// position returns "path:line:col" for the start of span, or "" when the
// span points at no loaded file.
func position(span source.Span, fs *source.FileSet, mode PathMode) string {
	f, ok := fs.Lookup(span.File)
	if !ok {
		return ""
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}
