package wordlist

import (
	"strings"
	"unicode"
)

// splitCamel 在"小写或数字后面跟大写"的位置断开，getUserData -> get User Data
func splitCamel(seg string) []string {
	runes := []rune(seg)
	parts := make([]string, 0, 2)
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

// Tokenize 把一个标识符拆成若干小写token
// 先按非字母数字的连续串切段，段内再做驼峰拆分，最后整个标识符的小写形式也算一个token
// 返回的切片可能有重复，去重交给Session的set语义
func Tokenize(ident string) []string {
	if ident == "" {
		return nil
	}
	tokens := make([]string, 0, 4)
	seg := strings.Builder{}
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		for _, part := range splitCamel(seg.String()) {
			if part != "" {
				tokens = append(tokens, strings.ToLower(part))
			}
		}
		seg.Reset()
	}
	for _, r := range ident {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			seg.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return append(tokens, strings.ToLower(ident))
}
