package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Калибровка
	CalInfo           Code = 1000
	CalNoNumericToken Code = 1001
	CalEmptyInput     Code = 1002
	CalNotNFC         Code = 1003

	// I/O
	IOLoadFileError Code = 4001

	// Конфигурация
	CfgInvalid Code = 5001

	// Кэш результатов
	CacheReadFailed  Code = 6001
	CacheWriteFailed Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:       "Unknown error",
	CalInfo:           "Calibration information",
	CalNoNumericToken: "Line has no numeric token",
	CalEmptyInput:     "Input has no usable lines",
	CalNotNFC:         "Input is not NFC-normalized",
	IOLoadFileError:   "I/O load file error",
	CfgInvalid:        "Invalid configuration",
	CacheReadFailed:   "Result cache read failed",
	CacheWriteFailed:  "Result cache write failed",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CAL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CCH%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
