package libggiu

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestMarkLifecycle(t *testing.T) {
	wb := NewWorkbench()
	wb.SetQuery("{ users { id } }")

	if err := wb.Mark(2, 7); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	m := wb.Marker()
	if m == nil || m.Orig != "users" {
		t.Fatalf("marker快照不对: %+v", m)
	}

	// 重复Mark覆盖旧的
	if err := wb.Mark(10, 12); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if wb.Marker().Orig != "id" {
		t.Fatalf("marker应被覆盖: %+v", wb.Marker())
	}

	// 改query让marker作废
	wb.SetQuery("{ posts { id } }")
	if wb.Marker() != nil {
		t.Fatal("改query后marker应被清掉")
	}
}

func TestMarkBounds(t *testing.T) {
	wb := NewWorkbench()
	wb.SetQuery("{ a }")
	if err := wb.Mark(-1, 2); err == nil {
		t.Fatal("负数start应报错")
	}
	if err := wb.Mark(0, 100); err == nil {
		t.Fatal("越界end应报错")
	}
	if err := wb.Mark(3, 3); err == nil {
		t.Fatal("空区间应报错")
	}
}

func TestBeautifyInvalidatesMarker(t *testing.T) {
	wb := NewWorkbench()
	wb.SetQuery("{users{id}}")
	if err := wb.Mark(1, 6); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	wb.Beautify()
	if !strings.Contains(wb.Config().Query, "\n") {
		t.Fatalf("query应被格式化: %q", wb.Config().Query)
	}
	if wb.Marker() != nil {
		t.Fatal("格式化改动了query，marker应被清掉")
	}
}

func TestBeautifyNoChangeKeepsMarker(t *testing.T) {
	wb := NewWorkbench()
	wb.SetQuery("{users{id}}")
	wb.Beautify()
	formatted := wb.Config().Query
	if err := wb.Mark(0, 1); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	wb.Beautify()
	if wb.Config().Query != formatted {
		t.Fatal("已格式化的query不应再变")
	}
	if wb.Marker() == nil {
		t.Fatal("query没变，marker应保留")
	}
}

func TestSendHarvestsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		blob, _ := io.ReadAll(r.Body)
		if gjson.GetBytes(blob, "query").String() == "" {
			t.Errorf("请求体缺query: %s", blob)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"getUsers":[{"userName":"admin"}]}}`))
	}))
	defer srv.Close()

	wb := NewWorkbench()
	wb.SetURL(srv.URL)
	wb.SetQuery("{ getUsers { userName } }")
	wb.SetVariables(`{"ownerId": "svcBackup"}`)

	resp, err := wb.Send(context.Background())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Status != 200 {
		t.Fatalf("status=%d", resp.Status)
	}

	words := wb.SessionWords()
	set := map[string]bool{}
	for _, w := range words {
		set[w] = true
	}
	// query里的getUsers、variables里的ownerId/svcBackup和响应里的userName/admin都应被拆词收集
	for _, want := range []string{"get", "users", "user", "name", "admin", "owner", "svc", "backup"} {
		if !set[want] {
			t.Fatalf("缺词%q, got %v", want, words)
		}
	}

	wb.ClearSessionWords()
	if len(wb.SessionWords()) != 0 {
		t.Fatal("清空后词表应为空")
	}
}

func TestSendNoURL(t *testing.T) {
	wb := NewWorkbench()
	wb.SetQuery("{ a }")
	if _, err := wb.Send(context.Background()); err == nil {
		t.Fatal("没有url应报错")
	}
}

func TestAddWord(t *testing.T) {
	wb := NewWorkbench()
	tokens := wb.AddWord("getUserData")
	set := map[string]bool{}
	for _, tk := range tokens {
		set[tk] = true
	}
	if !set["get"] || !set["user"] || !set["data"] || !set["getuserdata"] {
		t.Fatalf("拆词结果不对: %v", tokens)
	}
	if len(wb.SessionWords()) == 0 {
		t.Fatal("拆出来的词应进session词表")
	}
}

func TestHandoffSnapshot(t *testing.T) {
	wb := NewWorkbench()
	wb.SetURL("http://t/graphql")
	wb.SetQuery("{ users { id } }")
	wb.Mark(2, 7)

	h := wb.Handoff()
	if h.Config.URL != "http://t/graphql" || h.Marker == nil || h.Marker.Orig != "users" {
		t.Fatalf("handoff快照不对: %+v", h)
	}

	// 快照不应随后续改动变化
	wb.SetQuery("{ x }")
	if h.Marker == nil || h.Marker.Orig != "users" {
		t.Fatal("handoff应是独立快照")
	}
}
