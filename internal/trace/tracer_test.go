package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"off": LevelOff, "": LevelOff, "ERROR": LevelError,
		"phase": LevelPhase, "detail": LevelDetail, "debug": LevelDebug,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestShouldEmit(t *testing.T) {
	require.False(t, LevelOff.ShouldEmit(ScopeDriver))
	require.False(t, LevelError.ShouldEmit(ScopeDriver))
	require.True(t, LevelPhase.ShouldEmit(ScopeFile))
	require.False(t, LevelPhase.ShouldEmit(ScopeLine))
	require.True(t, LevelDetail.ShouldEmit(ScopeLine))
	require.False(t, LevelDetail.ShouldEmit(ScopeToken))
	require.True(t, LevelDebug.ShouldEmit(ScopeToken))
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeFile, "sum", 0)
	Point(tr, ScopeLine, "line", "1abc2", span.ID(), map[string]string{"value": "12", "line": "1"})
	Point(tr, ScopeToken, "token", "1", span.ID(), nil)
	span.WithExtra("total", "12").End("")

	out := buf.String()
	require.Contains(t, out, "→ sum")
	require.Contains(t, out, "• line (1abc2) {line=1, value=12}")
	require.Contains(t, out, "← sum {total=12}")
	require.NotContains(t, out, "token")
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeToken, "token", "eight", 0, map[string]string{"value": "8"})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "point", got["kind"])
	require.Equal(t, "token", got["scope"])
	require.Equal(t, "eight", got["detail"])
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeLine, name, "", 0, nil)
	}
	events := ring.Snapshot()
	require.Len(t, events, 2)
	require.Equal(t, "b", events[0].Name)
	require.Equal(t, "c", events[1].Name)

	var buf bytes.Buffer
	require.NoError(t, ring.Dump(&buf, FormatText))
	require.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestRingAtErrorLevelKeepsPhases(t *testing.T) {
	ring := NewRingTracer(8, LevelError)
	span := Begin(ring, ScopeFile, "sum", 0)
	Point(ring, ScopeLine, "line", "", span.ID(), nil)
	span.End("failed")

	events := ring.Snapshot()
	require.Len(t, events, 2)
	require.Equal(t, KindSpanBegin, events[0].Kind)
	require.Equal(t, KindSpanEnd, events[1].Kind)
}

func TestNewByMode(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	require.False(t, tr.Enabled())

	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing, RingSize: 4})
	require.NoError(t, err)
	_, ok := FindRing(tr)
	require.True(t, ok)

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	require.NoError(t, err)
	ring, ok := FindRing(tr)
	require.True(t, ok)
	Begin(tr, ScopeDriver, "run", 0).End("")
	require.Len(t, ring.Snapshot(), 2)
	require.NotEmpty(t, buf.String())

	_, err = New(Config{Level: LevelPhase, Mode: StorageMode(9)})
	require.Error(t, err)
}

func TestTeeTracerFiltersBothSides(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	require.NoError(t, err)
	require.Equal(t, LevelPhase, tr.Level())

	Point(tr, ScopeLine, "line", "1abc2", 0, nil)
	Point(tr, ScopeFile, "file", "input.txt", 0, nil)

	ring, ok := FindRing(tr)
	require.True(t, ok)
	events := ring.Snapshot()
	require.Len(t, events, 1)
	require.Equal(t, "file", events[0].Name)
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
	require.NoError(t, tr.Close())
}

func TestNewWritesNDJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, OutputPath: path})
	require.NoError(t, err)
	Begin(tr, ScopeDriver, "run", 0).End("")
	require.NoError(t, tr.Close())
}

func TestContextPropagation(t *testing.T) {
	require.Equal(t, Nop, FromContext(context.Background()))

	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	require.Equal(t, Tracer(ring), FromContext(ctx))

	span := Begin(ring, ScopeFile, "sum", 0)
	ctx = WithSpan(ctx, span)
	require.Equal(t, span.ID(), CurrentSpan(ctx))
	require.Zero(t, CurrentSpan(context.Background()))
}

func TestNopSpan(t *testing.T) {
	span := Begin(Nop, ScopeFile, "sum", 0)
	require.Zero(t, span.ID())
	require.Zero(t, span.WithExtra("k", "v").End(""))
}
