package token

// NumberWord pairs a spelled-out number with its value.
type NumberWord struct {
	Text  string
	Value uint8
}

// порядок совпадает со значениями; "zero" намеренно не распознаётся
var numberWords = []NumberWord{
	{"one", 1},
	{"two", 2},
	{"three", 3},
	{"four", 4},
	{"five", 5},
	{"six", 6},
	{"seven", 7},
	{"eight", 8},
	{"nine", 9},
}

var wordIndex = func() map[string]uint8 {
	m := make(map[string]uint8, len(numberWords))
	for _, w := range numberWords {
		m[w.Text] = w.Value
	}
	return m
}()

// NumberWords returns the recognised spelled-out numbers in value order.
// Callers must not modify the returned slice.
func NumberWords() []NumberWord {
	return numberWords
}

// LookupWord возвращает значение слова и bool если это число прописью.
// Сравнение регистрозависимое, только lowercase.
func LookupWord(s string) (uint8, bool) {
	v, ok := wordIndex[s]
	return v, ok
}
