package fuzz

import (
	"strings"
	"sync"
	"testing"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/tidwall/gjson"
)

func TestSplice(t *testing.T) {
	base := "{ users { id } }"
	m := &gqlTypes.Marker{Start: 2, End: 7, Orig: "users"}
	if got := Splice(base, m, "adminUsers"); got != "{ adminUsers { id } }" {
		t.Errorf("splice got %q", got)
	}
}

// 同一个marker跑两轮，每轮都必须从原文开始拼，产物逐词一致
func TestSpliceIdempotent(t *testing.T) {
	base := "{ users { id } }"
	m := &gqlTypes.Marker{Start: 2, End: 7, Orig: "users"}
	words := []string{"adminUsers", "systemConfig", "x"}
	first := make([]string, len(words))
	for i, w := range words {
		first[i] = Splice(base, m, w)
	}
	for i, w := range words {
		if got := Splice(base, m, w); got != first[i] {
			t.Errorf("run 2 diverged at %q: %q != %q", w, got, first[i])
		}
	}
}

// 早先拼好的字符串不能因为后续调用复用了池里的buffer而被改写
func TestSpliceResultSurvivesPoolReuse(t *testing.T) {
	base := "{ users { id } }"
	m := &gqlTypes.Marker{Start: 2, End: 7, Orig: "users"}
	first := Splice(base, m, "adminUsers")
	Splice(base, m, "systemConfig")
	if first != "{ adminUsers { id } }" {
		t.Errorf("first result mutated after later splice: %q", first)
	}
}

// 并发拼接下每个产物都得是自己那个词的完整拼接结果
func TestSpliceConcurrent(t *testing.T) {
	base := "{ users { id } }"
	m := &gqlTypes.Marker{Start: 2, End: 7, Orig: "users"}
	words := []string{"adminUsers", "systemConfig", "notes", "login", "search", "user", "_debugDump", "ssn"}
	got := make([]string, len(words))
	wg := sync.WaitGroup{}
	for i := range words {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				got[i] = Splice(base, m, words[i])
			}
		}(i)
	}
	wg.Wait()
	for i, w := range words {
		if want := "{ " + w + " { id } }"; got[i] != want {
			t.Errorf("corrupted splice for %q: %q", w, got[i])
		}
	}
}

func TestSpliceNilMarker(t *testing.T) {
	if got := Splice("{ a }", nil, "whatever"); got != "{ a }" {
		t.Errorf("nil marker should pass text through, got %q", got)
	}
}

func TestBuildBody(t *testing.T) {
	body := string(BuildBody("{ users { id } }", `{"first": 5}`))
	if gjson.Get(body, "query").String() != "{ users { id } }" {
		t.Errorf("query lost: %s", body)
	}
	if gjson.Get(body, "variables.first").Int() != 5 {
		t.Errorf("variables lost: %s", body)
	}
}

func TestBuildBodyBadVariables(t *testing.T) {
	body := string(BuildBody("{ a }", "{broken"))
	if !strings.Contains(body, `"variables":{}`) {
		t.Errorf("bad variables should fall back to empty object: %s", body)
	}
}

func TestResultSetOrdered(t *testing.T) {
	rs := NewResultSet()
	for _, seq := range []int{3, 1, 2} {
		rs.Put(&gqlTypes.FuzzResult{Seq: seq})
	}
	view := rs.Ordered()
	if len(view) != 3 || view[0].Seq != 1 || view[1].Seq != 2 || view[2].Seq != 3 {
		t.Errorf("view not ordered: %v", view)
	}
	rs.Clear()
	if rs.Len() != 0 {
		t.Error("clear failed")
	}
}
