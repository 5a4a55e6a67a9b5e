package util

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsUnderScore(b byte) bool {
	return b == '_'
}

func IsUpperLetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func IsLowerLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func IsLetter(b byte) bool {
	return IsLowerLetter(b) || IsUpperLetter(b)
}

func IsLetterOrUnderscoreOrNumber(b byte) bool {
	return IsLetter(b) || IsUnderScore(b) || IsNumber(b)
}

func IsNumberOrDot(b byte) bool {
	return IsNumber(b) || b == '.'
}

// IsBlank reports the whitespace the tokenizer throws away. Newline is not blank, it ends a statement.
func IsBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f'
}
