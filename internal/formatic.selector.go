package internal

import (
	"unicode"
)

// ParseSelector splits a selector path such as "user.addresses[0].city"
// into its tokens. It returns the byte index of the first offending
// character when the path is malformed.
func ParseSelector(path string) ([]string, int, bool) {
	if path == StringValueEmpty {
		return nil, 0, true
	}

	var tokens []string
	runes := []rune(path)
	byteIdx := make([]int, len(runes)+1)
	offset := 0
	for i, r := range runes {
		byteIdx[i] = offset
		offset += len(string(r))
	}
	byteIdx[len(runes)] = offset

	start := 0
	expectToken := true
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == CharSelectorSeparator:
			if expectToken {
				return nil, byteIdx[i], false
			}
			if i > start {
				tokens = append(tokens, string(runes[start:i]))
			}
			expectToken = true
			start = i + 1

		case r == CharIndexOpen:
			if i > start {
				tokens = append(tokens, string(runes[start:i]))
			} else if !expectToken && i > 0 && runes[i-1] != CharIndexClose {
				return nil, byteIdx[i], false
			}
			end := i + 1
			for end < len(runes) && runes[end] != CharIndexClose {
				if !isSelectorRune(runes[end]) {
					return nil, byteIdx[end], false
				}
				end++
			}
			if end >= len(runes) || end == i+1 {
				return nil, byteIdx[i], false
			}
			tokens = append(tokens, string(runes[i+1:end]))
			i = end
			start = end + 1
			expectToken = false
			if start < len(runes) && runes[start] != CharSelectorSeparator && runes[start] != CharIndexOpen {
				return nil, byteIdx[start], false
			}

		case isSelectorRune(r):
			expectToken = false

		default:
			return nil, byteIdx[i], false
		}
	}

	if expectToken {
		return nil, byteIdx[len(runes)], false
	}
	if start < len(runes) {
		tokens = append(tokens, string(runes[start:]))
	}
	return tokens, 0, true
}

func isSelectorRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == CharUnderscore || r == CharHyphen
}
