package fuzz

import (
	"sort"
	"sync"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
)

// ResultSet 按请求序号为key的结果map
// 批并发时各请求完成顺序不定，展示端永远通过Ordered拿按序号升序的投影，
// 而不是按插入顺序攒列表
type ResultSet struct {
	mu      sync.Mutex
	results map[int]*gqlTypes.FuzzResult
}

func NewResultSet() *ResultSet {
	return &ResultSet{results: make(map[int]*gqlTypes.FuzzResult)}
}

func (rs *ResultSet) Put(r *gqlTypes.FuzzResult) {
	if r == nil {
		return
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.results[r.Seq] = r
}

func (rs *ResultSet) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.results)
}

// Ordered 产出当前所有已完成结果的有序视图（序号升序），纯投影，不动底层map
func (rs *ResultSet) Ordered() []*gqlTypes.FuzzResult {
	rs.mu.Lock()
	out := make([]*gqlTypes.FuzzResult, 0, len(rs.results))
	for _, r := range rs.results {
		out = append(out, r)
	}
	rs.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func (rs *ResultSet) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.results = make(map[int]*gqlTypes.FuzzResult)
}
