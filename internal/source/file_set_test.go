package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("input.txt", []byte("1abc2"), 0)
	require.Equal(t, FileID(0), id1)

	latest, ok := fs.GetLatest("input.txt")
	require.True(t, ok)
	require.Equal(t, id1, latest)

	id2 := fs.Add("input.txt", []byte("two1nine"), 0)
	require.Equal(t, FileID(1), id2)

	latest, ok = fs.GetLatest("./input.txt")
	require.True(t, ok)
	require.Equal(t, id2, latest)

	// старая версия остаётся доступной
	require.Equal(t, "1abc2", string(fs.Get(id1).Content))
	require.Equal(t, "two1nine", string(fs.Get(id2).Content))
	require.Equal(t, 2, fs.Len())
}

func TestLinesKeepsEmptySegments(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("demo", []byte("1abc2\n\npqr3stu8vwx\n")))

	lines := f.Lines()
	require.Len(t, lines, 4)

	texts := make([]string, 0, len(lines))
	for _, ln := range lines {
		texts = append(texts, f.Text(ln.Span))
	}
	require.Equal(t, []string{"1abc2", "", "pqr3stu8vwx", ""}, texts)
	require.Equal(t, uint32(3), lines[2].Num)
	require.Equal(t, Span{File: f.ID, Start: 7, End: 18}, lines[2].Span)
}

func TestLinesWithoutNewline(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("one", []byte("treb7uchet")))

	lines := f.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "treb7uchet", f.Text(lines[0].Span))
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("demo", []byte("ab\ncd\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}},
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
		{7, LineCol{Line: 3, Col: 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		require.Equal(t, tt.want, start, "offset %d", tt.off)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("demo", []byte("first\nsecond\n")))

	require.Equal(t, "first", f.GetLine(1))
	require.Equal(t, "second", f.GetLine(2))
	require.Equal(t, "", f.GetLine(3))
	require.Equal(t, "", f.GetLine(0))
	require.Equal(t, "", f.GetLine(10))
}

func TestLoadNormalizesInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("1abc2\r\ntwo1nine\r\n")...)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	fs := NewFileSet()
	id, err := fs.Load(path)
	require.NoError(t, err)

	f := fs.Get(id)
	require.Equal(t, "1abc2\ntwo1nine\n", string(f.Content))
	require.NotZero(t, f.Flags&FileHadBOM)
	require.NotZero(t, f.Flags&FileNormalizedCRLF)
	require.Zero(t, f.Flags&FileVirtual)
}

func TestLoadKeepsNonNFCBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	// "e" + combining acute accent: NFC would fold "one" into "on\u00e9"
	raw := "12\n7one\u0301\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	fs := NewFileSet()
	id, err := fs.Load(path)
	require.NoError(t, err)

	f := fs.Get(id)
	require.Equal(t, raw, string(f.Content))
	require.NotZero(t, f.Flags&FileNotNFC)

	sp, ok := f.NonNFCLine()
	require.True(t, ok)
	require.Equal(t, "7one\u0301", f.Text(sp))
}

func TestNonNFCLineOnNormalContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("caf\u00e9 1\n"), 0o600))

	fs := NewFileSet()
	id, err := fs.Load(path)
	require.NoError(t, err)

	f := fs.Get(id)
	require.Zero(t, f.Flags&FileNotNFC)
	_, ok := f.NonNFCLine()
	require.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	_, err := fs.Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, 0, fs.Len())
}

func TestFormatPath(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "base", "input.txt")
	f := &File{Path: normalizePath(target)}

	require.Equal(t, "input.txt", f.FormatPath("basename", ""))
	require.Equal(t, "input.txt", f.FormatPath("relative", filepath.Join(tmp, "base")))
	require.Equal(t, normalizePath(target), f.FormatPath("relative", filepath.Join(tmp, "other")))
}
