package lexer

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b|0x20 >= 'a' && b|0x20 <= 'z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDec(b) || b == '$'
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}

func isBaseChar(b byte) bool {
	switch b | 0x20 {
	case 'b', 'o', 'd', 'h':
		return true
	}
	return false
}

// isBasedDigit accepts the union of hex digits, x/z/? and separators.
func isBasedDigit(b byte) bool {
	switch {
	case isDec(b), b == '_', b == '?':
		return true
	}
	switch b | 0x20 {
	case 'a', 'b', 'c', 'd', 'e', 'f', 'x', 'z':
		return true
	}
	return false
}

func isUnbasedUnsized(b byte) bool {
	switch b {
	case '0', '1', 'x', 'X', 'z', 'Z':
		return true
	}
	return false
}

var timeUnits = []string{"step", "fs", "ps", "ns", "us", "ms", "s"}
