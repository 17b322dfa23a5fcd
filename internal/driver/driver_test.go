package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"trebuchet/internal/calibration"
	"trebuchet/internal/diag"
	"trebuchet/internal/lexer"
	"trebuchet/internal/observ"
	"trebuchet/internal/trace"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestSumFile(t *testing.T) {
	p := writeInput(t, t.TempDir(), "input.txt", "two1nine\r\neightwothree\r\n")
	_, res, err := SumFile(context.Background(), p, Options{Mode: lexer.ModeWords})
	require.NoError(t, err)
	require.Equal(t, 29+83, res.Total())
	require.Len(t, res.Result.Lines, 2)
	require.Equal(t, 0, res.Bag.Len())
	require.Nil(t, res.Timing)
}

func TestSumFileMissing(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope.txt")
	_, res, err := SumFile(context.Background(), p, Options{Mode: lexer.ModeDigits})

	var fre *FileReadError
	require.ErrorAs(t, err, &fre)
	require.Equal(t, p, fre.Path)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.True(t, IsFileReadError(err))
	require.Equal(t, diag.IOLoadFileError, res.Bag.Items()[0].Code)
	require.Zero(t, res.Total())
}

func TestSumFileNoToken(t *testing.T) {
	p := writeInput(t, t.TempDir(), "input.txt", "12\nabc\n")
	_, res, err := SumFile(context.Background(), p, Options{Mode: lexer.ModeDigits})
	require.ErrorIs(t, err, calibration.ErrNoToken)
	require.True(t, res.Bag.HasErrors())
	require.Zero(t, res.Total())
}

func TestSumFileTimings(t *testing.T) {
	p := writeInput(t, t.TempDir(), "input.txt", "1\n")
	_, res, err := SumFile(context.Background(), p, Options{Mode: lexer.ModeDigits, Timings: true})
	require.NoError(t, err)
	require.NotNil(t, res.Timing)

	var names []string
	for _, ph := range res.Timing.Phases {
		names = append(names, ph.Name)
	}
	require.Equal(t, []string{observ.StageLoad, observ.StageScan}, names)
}

func TestSumFileMatchesLineValueOnNonNFCInput(t *testing.T) {
	line := "7one\u0301"
	p := writeInput(t, t.TempDir(), "input.txt", line+"\n")

	want, err := calibration.LineValue(line, lexer.ModeWords)
	require.NoError(t, err)
	require.Equal(t, 71, want)

	_, res, err := SumFile(context.Background(), p, Options{Mode: lexer.ModeWords})
	require.NoError(t, err)
	require.Equal(t, want, res.Total())

	// только предупреждение, не ошибка
	require.Equal(t, 1, res.Bag.Len())
	d := res.Bag.Items()[0]
	require.Equal(t, diag.CalNotNFC, d.Code)
	require.Equal(t, diag.SevWarning, d.Severity)
	require.False(t, res.Bag.HasErrors())
}

func TestSumFileUsesCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	p := writeInput(t, dir, "input.txt", "zoneight234\n")
	opts := Options{Mode: lexer.ModeWords, Cache: cache}

	_, first, err := SumFile(context.Background(), p, opts)
	require.NoError(t, err)
	require.False(t, first.Cached)

	_, second, err := SumFile(context.Background(), p, opts)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Result.Total, second.Result.Total)
	require.Equal(t, "one", second.Result.Lines[0].First.Text)

	// другой режим, другой ключ
	opts.Mode = lexer.ModeDigits
	_, third, err := SumFile(context.Background(), p, opts)
	require.NoError(t, err)
	require.False(t, third.Cached)
	require.Equal(t, 24, third.Total())
}

func TestSumFileTraceSpans(t *testing.T) {
	p := writeInput(t, t.TempDir(), "input.txt", "1abc2\n")
	ring := trace.NewRingTracer(16, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)

	_, _, err := SumFile(ctx, p, Options{Mode: lexer.ModeDigits})
	require.NoError(t, err)

	events := ring.Snapshot()
	require.Len(t, events, 2)
	require.Equal(t, trace.KindSpanEnd, events[1].Kind)
	require.Equal(t, "12", events[1].Extra["total"])
	require.Equal(t, "digits", events[1].Extra["mode"])
}

func TestSumFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeInput(t, dir, "a.txt", "1abc2\npqr3stu8vwx\n"),
		filepath.Join(dir, "missing.txt"),
		writeInput(t, dir, "b.txt", "a1b2c3d4e5f\ntreb7uchet\n"),
		writeInput(t, dir, "c.txt", "\n\n"),
	}

	batch, err := SumFiles(context.Background(), paths, Options{Mode: lexer.ModeDigits, Jobs: 2})
	require.NoError(t, err)
	require.Len(t, batch.Files, 4)
	require.Equal(t, 142, batch.Total())
	require.Equal(t, 2, batch.Failed())

	require.Equal(t, paths[0], batch.Files[0].Path)
	require.Equal(t, 50, batch.Files[0].Total())
	require.True(t, IsFileReadError(batch.Files[1].Err))
	require.Equal(t, 92, batch.Files[2].Total())
	require.ErrorIs(t, batch.Files[3].Err, calibration.ErrEmptyInput)
}

func TestSumFilesCancelled(t *testing.T) {
	p := writeInput(t, t.TempDir(), "a.txt", "1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SumFiles(ctx, []string{p, p}, Options{Mode: lexer.ModeDigits})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestTokenize(t *testing.T) {
	p := writeInput(t, t.TempDir(), "input.txt", "oneight\n\nxyz\n")
	res, err := Tokenize(context.Background(), p, Options{Mode: lexer.ModeWords})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	require.Len(t, res.Lines[0].Tokens, 2)
	require.Equal(t, uint32(3), res.Lines[1].Line.Num)
	require.Empty(t, res.Lines[1].Tokens)

	_, err = Tokenize(context.Background(), filepath.Join(t.TempDir(), "x"), Options{})
	require.True(t, IsFileReadError(err))
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestSumFilesEmitsProgress(t *testing.T) {
	dir := t.TempDir()
	ok := writeInput(t, dir, "ok.txt", "7\n")
	bad := writeInput(t, dir, "bad.txt", "x\n")
	sink := &recordingSink{}

	_, err := SumFiles(context.Background(), []string{ok, bad}, Options{Mode: lexer.ModeDigits, Progress: sink})
	require.NoError(t, err)

	final := map[string]Status{}
	queued := 0
	for _, ev := range sink.events {
		if ev.Status == StatusQueued {
			queued++
		}
		final[ev.File] = ev.Status
	}
	require.Equal(t, 2, queued)
	require.Equal(t, StatusDone, final[ok])
	require.Equal(t, StatusError, final[bad])
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a", Status: StatusDone})
	require.Equal(t, "a", (<-ch).File)
	ChannelSink{}.OnEvent(Event{})
}
