package lexer

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// первые буквы слов one..nine
func isWordStart(b byte) bool {
	switch b {
	case 'o', 't', 'f', 's', 'e', 'n':
		return true
	}
	return false
}
