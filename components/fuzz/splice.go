package fuzz

import (
	"encoding/json"
	"strings"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/nostalgist134/reusableBytes"
	"github.com/tidwall/gjson"
)

// 拼接query用的缓冲池，fuzz循环每次迭代都要拼一遍，不想反复分配
var bp = new(reusablebytes.BytesPool).Init(32, 65536, 32)

// Splice 把word按marker记录的偏移接进原始query文本
// 每次都从同一份原文开始拼，绝不在上一次拼好的结果上继续替换
func Splice(base string, m *gqlTypes.Marker, word string) string {
	if m == nil {
		return base
	}
	rb, id := bp.Get()
	defer bp.Put(id)
	rb.Anchor()
	rb.WriteString(base[:m.Start])
	rb.WriteString(word)
	rb.WriteString(base[m.End:])
	// Lazy.String()是零拷贝的，底层就是池里那块buffer，Put之后会被下一次Get覆写，
	// 所以必须趁buffer还在手里先拷出来（defer的Put在返回值求值之后才跑）
	return strings.Clone(rb.LazyFromAnchor().String())
}

type gqlBody struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables"`
}

// BuildBody 组装发出去的请求体{"query":...,"variables":...}
// variables文本解析不了就兜底成空对象，绝不让一次迭代因此失败
func BuildBody(query, variables string) []byte {
	vars := json.RawMessage("{}")
	if trimmed := strings.TrimSpace(variables); trimmed != "" && gjson.Valid(trimmed) {
		vars = json.RawMessage(trimmed)
	}
	body, _ := json.Marshal(gqlBody{Query: query, Variables: vars})
	return body
}
