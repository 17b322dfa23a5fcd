package calibration_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"trebuchet/internal/calibration"
	"trebuchet/internal/diag"
	"trebuchet/internal/lexer"
	"trebuchet/internal/source"
	"trebuchet/internal/token"
	"trebuchet/internal/trace"
)

const demoDigits = `1abc2
pqr3stu8vwx
a1b2c3d4e5f
treb7uchet
`

const demoWords = `two1nine
eightwothree
abcone2threexyz
xtwone3four
4nineeightseven2
zoneight234
7pqrstsixteen
`

func TestLineValue(t *testing.T) {
	tests := []struct {
		line string
		mode lexer.Mode
		want int
	}{
		{"5", lexer.ModeDigits, 55},
		{"5", lexer.ModeWords, 55},
		{"1abc2", lexer.ModeDigits, 12},
		{"pqr3stu8vwx", lexer.ModeDigits, 38},
		{"treb7uchet", lexer.ModeDigits, 77},
		{"two1nine", lexer.ModeWords, 29},
		{"two1nine", lexer.ModeDigits, 11},
		{"eightwothree", lexer.ModeWords, 83},
		{"zoneight234", lexer.ModeWords, 14},
		{"xtwone3four", lexer.ModeWords, 24},
		{"7pqrstsixteen", lexer.ModeWords, 76},
		{"oneight", lexer.ModeWords, 18},
		{"nine", lexer.ModeWords, 99},
		{"0abc0", lexer.ModeDigits, 0},
		{"ab9", lexer.ModeDigits, 99},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.line, func(t *testing.T) {
			got, err := calibration.LineValue(tt.line, tt.mode)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLineValueDigitLinesAgreeAcrossModes(t *testing.T) {
	for _, line := range []string{"5", "12", "908", "a1b2c3", "x7y"} {
		digits, err := calibration.LineValue(line, lexer.ModeDigits)
		require.NoError(t, err)
		words, err := calibration.LineValue(line, lexer.ModeWords)
		require.NoError(t, err)
		require.Equal(t, digits, words, line)
	}
}

func TestLineValueIdempotent(t *testing.T) {
	first, err := calibration.LineValue("eightwothree", lexer.ModeWords)
	require.NoError(t, err)
	second, err := calibration.LineValue("eightwothree", lexer.ModeWords)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLineValueNoToken(t *testing.T) {
	_, err := calibration.LineValue("abcdef", lexer.ModeWords)
	require.ErrorIs(t, err, calibration.ErrNoToken)

	// слова не считаются в режиме digits
	_, err = calibration.LineValue("onetwo", lexer.ModeDigits)
	require.ErrorIs(t, err, calibration.ErrNoToken)

	var nt *calibration.NoTokenError
	require.ErrorAs(t, err, &nt)
	require.Equal(t, uint32(1), nt.Line)
	require.Equal(t, "onetwo", nt.Text)
}

func TestBoundsSortsByPosition(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x", []byte("3four")))
	tokens := lexer.New(file, lexer.Options{Mode: lexer.ModeWords}).ScanLine(file.Lines()[0])
	require.Len(t, tokens, 2)

	// порядок на входе не важен
	reversed := []token.Token{tokens[1], tokens[0]}
	first, last, err := calibration.Bounds(reversed)
	require.NoError(t, err)
	require.Equal(t, uint8(3), first.Value)
	require.Equal(t, uint8(4), last.Value)
	require.Equal(t, 34, calibration.Combine(first, last))

	_, _, err = calibration.Bounds(nil)
	require.ErrorIs(t, err, calibration.ErrNoToken)
}

func TestSumDemoInputs(t *testing.T) {
	total, err := calibration.Sum(demoDigits, lexer.ModeDigits)
	require.NoError(t, err)
	require.Equal(t, 142, total)

	total, err = calibration.Sum(demoWords, lexer.ModeWords)
	require.NoError(t, err)
	require.Equal(t, 281, total)
}

func TestSumTestdata(t *testing.T) {
	tests := []struct {
		file string
		mode lexer.Mode
		want int
	}{
		{"digits/demo.txt", lexer.ModeDigits, 142},
		{"words/demo.txt", lexer.ModeWords, 281},
		{"words/overlaps.txt", lexer.ModeWords, 394},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("..", "..", "testdata", filepath.FromSlash(tt.file)))
			require.NoError(t, err)
			total, err := calibration.Sum(string(data), tt.mode)
			require.NoError(t, err)
			require.Equal(t, tt.want, total)
		})
	}
}

func TestSumIsAdditive(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(demoWords, "\n"), "\n")
	want := 0
	for _, line := range lines {
		v, err := calibration.LineValue(line, lexer.ModeWords)
		require.NoError(t, err)
		want += v
	}
	got, err := calibration.Sum(demoWords, lexer.ModeWords)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSumSkipsEmptyLines(t *testing.T) {
	for _, text := range []string{"1abc2\n", "1abc2", "\n1abc2\n\n", "1abc2\n\n\n"} {
		total, err := calibration.Sum(text, lexer.ModeDigits)
		require.NoError(t, err, "%q", text)
		require.Equal(t, 12, total, "%q", text)
	}
}

func TestSumEmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n", "\n\n\n"} {
		_, err := calibration.Sum(text, lexer.ModeWords)
		require.ErrorIs(t, err, calibration.ErrEmptyInput, "%q", text)
	}
}

func TestSumFailsFastOnTokenlessLine(t *testing.T) {
	_, err := calibration.Sum("1abc2\nxyz\n7\n", lexer.ModeDigits)
	var nt *calibration.NoTokenError
	require.ErrorAs(t, err, &nt)
	require.Equal(t, uint32(2), nt.Line)
	require.Equal(t, "xyz", nt.Text)

	// строка из пробелов не пустая
	_, err = calibration.Sum("1\n \n", lexer.ModeDigits)
	require.ErrorIs(t, err, calibration.ErrNoToken)
}

func TestSumFileReportsDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("input.txt", []byte("two1nine\nnothing here\n")))
	bag := diag.NewBag(10)

	_, err := calibration.SumFile(context.Background(), file, calibration.Options{
		Mode:     lexer.ModeWords,
		Reporter: diag.BagReporter{Bag: bag},
	})
	require.ErrorIs(t, err, calibration.ErrNoToken)
	require.Equal(t, 1, bag.Len())

	d := bag.Items()[0]
	require.Equal(t, diag.CalNoNumericToken, d.Code)
	require.Equal(t, "nothing here", file.Text(d.Primary))
	require.Contains(t, d.Message, "line 2")
	require.Contains(t, d.Message, "number word")
}

func TestSumFileEmptyInputDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("input.txt", []byte("\n")))
	bag := diag.NewBag(10)

	_, err := calibration.SumFile(context.Background(), file, calibration.Options{
		Mode:     lexer.ModeDigits,
		Reporter: diag.BagReporter{Bag: bag},
	})
	require.ErrorIs(t, err, calibration.ErrEmptyInput)
	require.Equal(t, diag.CalEmptyInput, bag.Items()[0].Code)
}

func TestSumFileLineResults(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("input.txt", []byte("zoneight234\n\n5\n")))

	res, err := calibration.SumFile(context.Background(), file, calibration.Options{Mode: lexer.ModeWords})
	require.NoError(t, err)
	require.Equal(t, 69, res.Total)
	require.Len(t, res.Lines, 2)

	first := res.Lines[0]
	require.Equal(t, uint32(1), first.Line)
	require.Equal(t, "one", first.First.Text)
	require.Equal(t, "4", first.Last.Text)
	require.Equal(t, 5, first.Tokens)
	require.Equal(t, 14, first.Value)

	second := res.Lines[1]
	require.Equal(t, uint32(3), second.Line)
	require.Equal(t, second.First, second.Last)
	require.Equal(t, 55, second.Value)
}

func TestSumFileTracesLinesAndTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("input.txt", []byte("oneight\n")))
	ring := trace.NewRingTracer(32, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	_, err := calibration.SumFile(ctx, file, calibration.Options{Mode: lexer.ModeWords})
	require.NoError(t, err)

	var tokens, lines int
	for _, ev := range ring.Snapshot() {
		switch ev.Scope {
		case trace.ScopeToken:
			tokens++
		case trace.ScopeLine:
			lines++
			require.Equal(t, "18", ev.Extra["value"])
		}
	}
	require.Equal(t, 2, tokens)
	require.Equal(t, 1, lines)
}

func TestSumFileHonoursCancellation(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("input.txt", []byte("1\n2\n")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calibration.SumFile(ctx, file, calibration.Options{Mode: lexer.ModeDigits})
	require.True(t, errors.Is(err, context.Canceled))
}
