package lexer

import "unicode"

func isDigit(char rune) bool { return char >= '0' && char <= '9' }

func isWordStart(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsDigit(char)
}

func isWordPart(char rune) bool {
	return isWordStart(char) || char == '_'
}
