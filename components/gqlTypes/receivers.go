package gqlTypes

import "encoding/json"

func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	newSlice := make([]T, len(src))
	copy(newSlice, src)
	return newSlice
}

func cloneMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	copied := make(map[string]string, len(src))
	for k, v := range src {
		copied[k] = v
	}
	return copied
}

// Clone 将当前的Job结构克隆一份，fuzz循环运行期间持有克隆，防止调用方改配置影响进行中的任务
func (j *Job) Clone() *Job {
	newJob := new(Job)
	*newJob = *j
	newJob.Headers = cloneMap(j.Headers)
	newJob.Words = cloneSlice(j.Words)
	if j.Marker != nil {
		m := *j.Marker
		newJob.Marker = &m
	}
	return newJob
}

// Clone 克隆FuzzResult（头map重新分配）
func (r *FuzzResult) Clone() *FuzzResult {
	newRes := new(FuzzResult)
	*newRes = *r
	newRes.RespHeaders = cloneMap(r.RespHeaders)
	return newRes
}

// ValidFor 判断marker在给定query文本上是否还有效（区间在界内且原文没变）
func (m *Marker) ValidFor(query string) bool {
	if m == nil {
		return false
	}
	if m.Start < 0 || m.End < m.Start || m.End > len(query) {
		return false
	}
	return query[m.Start:m.End] == m.Orig
}

// Target 取转发信封的目标url，url字段优先于targetUrl
func (fr *ForwardRequest) Target() string {
	if fr.URL != "" {
		return fr.URL
	}
	return fr.TargetURL
}

// BodyString 将信封里的body还原成发往目标的字符串
// body是json字符串时取其字面值，是其他json值时原样重新序列化
func (fr *ForwardRequest) BodyString() string {
	if len(fr.Body) == 0 {
		return ""
	}
	if fr.Body[0] == '"' {
		var s string
		if err := json.Unmarshal(fr.Body, &s); err == nil {
			return s
		}
	}
	return string(fr.Body)
}
