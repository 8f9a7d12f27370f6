package gql

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// BeautifyQuery 将query解析后重新格式化输出，解析失败时原样返回（绝不因为烂输入报错）
func BeautifyQuery(query string) string {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return query
	}
	buf := bytes.Buffer{}
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return strings.TrimRight(buf.String(), "\n")
}

// BeautifyJSON json缩进格式化，失败原样返回
func BeautifyJSON(raw string) string {
	buf := bytes.Buffer{}
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

// Beautify 粘贴进workbench的文本不知道是json还是graphql，先按json试，不行再按query试
func Beautify(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	if gjson.Valid(trimmed) && (trimmed[0] == '{' || trimmed[0] == '[') {
		return BeautifyJSON(trimmed)
	}
	return BeautifyQuery(text)
}
