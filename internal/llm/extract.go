package llm

import "github.com/tidwall/gjson"

// ExtractObject returns the first balanced, valid JSON object embedded in
// text. Providers often wrap JSON in prose or code fences.
func ExtractObject(text string) (string, bool) {
	return extract(text, false)
}

// ExtractJSON is ExtractObject that also accepts a top-level array,
// whichever opens first.
func ExtractJSON(text string) (string, bool) {
	return extract(text, true)
}

func extract(text string, arrays bool) (string, bool) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '{' && !(arrays && c == '[') {
			continue
		}
		end := balancedEnd(text, i)
		if end < 0 {
			continue
		}
		if candidate := text[i : end+1]; gjson.Valid(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// balancedEnd returns the index closing the bracket opened at start, or -1.
// Brackets inside JSON strings are ignored.
func balancedEnd(s string, start int) int {
	var stack []byte
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
