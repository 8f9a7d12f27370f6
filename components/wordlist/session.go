package wordlist

import (
	"sort"
	"sync"

	"github.com/nostalgist134/GqlGIU/components/gql"
	"github.com/tidwall/gjson"
)

// Session workbench的会话wordlist：从经手的流量里收割标识符攒出来的token集合
// set语义，插入顺序无所谓，重复自动合并，只有显式Clear一种删除方式
type Session struct {
	mu    sync.Mutex
	words map[string]struct{}
}

func NewSession() *Session {
	return &Session{words: make(map[string]struct{})}
}

// Add 把一个标识符tokenize之后全部入集合
func (s *Session) Add(ident string) {
	tokens := Tokenize(ident)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tokens {
		s.words[t] = struct{}{}
	}
}

// HarvestQuery 从一段graphql query里收割所有标识符，解析失败就静默放弃
func (s *Session) HarvestQuery(query string) {
	_ = gql.WalkIdentifiers(query, s.Add)
}

// HarvestJSON 递归遍历一个json值，收割所有字符串值和对象key
func (s *Session) HarvestJSON(raw string) {
	if !gjson.Valid(raw) {
		return
	}
	s.harvestValue(gjson.Parse(raw))
}

func (s *Session) harvestValue(v gjson.Result) {
	switch {
	case v.IsObject():
		v.ForEach(func(key, val gjson.Result) bool {
			s.Add(key.String())
			s.harvestValue(val)
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, val gjson.Result) bool {
			s.harvestValue(val)
			return true
		})
	case v.Type == gjson.String:
		s.Add(v.String())
	}
}

// Words 返回当前集合的快照，排序只是为了输出稳定
func (s *Session) Words() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.words)
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make(map[string]struct{})
}
