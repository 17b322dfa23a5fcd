// Package fuzztests houses Go fuzz harnesses for the calibration pipeline
// (source -> lexer -> calibration). Its goal is to smoke test robustness
// on arbitrary bytes and to check that every outcome is one of the
// documented ones.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер и суммирование.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/calibration,
// internal/diag.

package fuzztests
