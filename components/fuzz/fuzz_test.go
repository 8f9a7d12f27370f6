package fuzz

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/tidwall/gjson"
)

func markerFor(t *testing.T, query, span string) *gqlTypes.Marker {
	t.Helper()
	ind := 0
	for ; ind < len(query)-len(span); ind++ {
		if query[ind:ind+len(span)] == span {
			break
		}
	}
	return &gqlTypes.Marker{Start: ind, End: ind + len(span), Orig: span}
}

// 端到端：两个词、marker盖住users、目标全回200
func TestRunSequentialEndToEnd(t *testing.T) {
	mu := sync.Mutex{}
	queries := make([]string, 0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		queries = append(queries, gjson.GetBytes(raw, "query").String())
		mu.Unlock()
		w.WriteHeader(200)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	job := &gqlTypes.Job{
		URL:    srv.URL,
		Query:  "{ users { id } }",
		Marker: markerFor(t, "{ users { id } }", "users"),
		Words:  []string{"adminUsers", "systemConfig"},
	}
	rs := NewResultSet()
	if err := Run(context.Background(), job, rs, nil); err != nil {
		t.Fatal(err)
	}

	view := rs.Ordered()
	if len(view) != 2 {
		t.Fatalf("want 2 rows, got %d", len(view))
	}
	if view[0].Seq != 1 || view[0].Word != "adminUsers" || view[0].Status != "200" {
		t.Errorf("row 1 wrong: %+v", view[0])
	}
	if view[1].Seq != 2 || view[1].Word != "systemConfig" {
		t.Errorf("row 2 wrong: %+v", view[1])
	}
	if queries[0] != "{ adminUsers { id } }" || queries[1] != "{ systemConfig { id } }" {
		t.Errorf("spliced queries wrong: %v", queries)
	}
}

// 批并发：L个词、批宽N，总请求数恰好为L、批大小<=N、最终视图按序号升序
func TestRunBatched(t *testing.T) {
	var inFlight, maxInFlight, total atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		total.Add(1)
		time.Sleep(time.Duration(cur%3) * 5 * time.Millisecond) // 打乱批内完成顺序
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	words := []string{"a", "b", "c", "d", "e", "f", "g"}
	job := &gqlTypes.Job{
		URL:     srv.URL,
		Query:   "{ users { id } }",
		Marker:  markerFor(t, "{ users { id } }", "users"),
		Words:   words,
		Threads: 3,
	}
	rs := NewResultSet()
	if err := Run(context.Background(), job, rs, nil); err != nil {
		t.Fatal(err)
	}

	if total.Load() != int64(len(words)) {
		t.Errorf("dispatched %d requests, want %d", total.Load(), len(words))
	}
	if maxInFlight.Load() > 3 {
		t.Errorf("batch width exceeded: %d in flight", maxInFlight.Load())
	}
	view := rs.Ordered()
	if len(view) != len(words) {
		t.Fatalf("want %d rows, got %d", len(words), len(view))
	}
	for i, r := range view {
		if r.Seq != i+1 {
			t.Errorf("view[%d].Seq = %d, not ascending", i, r.Seq)
		}
		if r.Word != words[i] {
			t.Errorf("view[%d].Word = %q, want %q", i, r.Word, words[i])
		}
	}
}

// 单个请求报错只出一行错误结果，循环继续
func TestRunErrorRowContinues(t *testing.T) {
	var n atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			// 掐死连接制造本地网络错误
			hj, _ := w.(http.Hijacker)
			conn, _, _ := hj.Hijack()
			conn.Close()
			return
		}
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	job := &gqlTypes.Job{
		URL:    srv.URL,
		Query:  "{ users { id } }",
		Marker: markerFor(t, "{ users { id } }", "users"),
		Words:  []string{"one", "two"},
	}
	rs := NewResultSet()
	if err := Run(context.Background(), job, rs, nil); err != nil {
		t.Fatal(err)
	}
	view := rs.Ordered()
	if len(view) != 2 {
		t.Fatalf("want 2 rows, got %d", len(view))
	}
	if len(view[0].Status) < 7 || view[0].Status[:7] != "Error: " {
		t.Errorf("row 1 should be synthesized error, got %q", view[0].Status)
	}
	if view[0].Length != "0" {
		t.Errorf("error row length should be \"0\", got %q", view[0].Length)
	}
	if view[1].Status != "200" {
		t.Errorf("loop did not continue after error: %+v", view[1])
	}
}

// 代理信封报错 -> 状态串精确等于"Proxy Error: Connection refused"，长度"0"
func TestRunProxyErrorRow(t *testing.T) {
	fakeProxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(500)
		json.NewEncoder(w).Encode(map[string]any{
			"error": "Connection refused", "isError": true, "status": 0,
			"statusText": "Proxy Error", "headers": map[string]string{}, "body": "",
		})
	}))
	defer fakeProxy.Close()

	job := &gqlTypes.Job{
		URL:      "http://unreachable.invalid/graphql",
		Query:    "{ users { id } }",
		Marker:   markerFor(t, "{ users { id } }", "users"),
		Words:    []string{"adminUsers"},
		UseProxy: true,
		ProxyURL: fakeProxy.URL,
	}
	rs := NewResultSet()
	if err := Run(context.Background(), job, rs, nil); err != nil {
		t.Fatal(err)
	}
	view := rs.Ordered()
	if len(view) != 1 {
		t.Fatalf("want 1 row, got %d", len(view))
	}
	if view[0].Status != "Proxy Error: Connection refused" {
		t.Errorf("status = %q", view[0].Status)
	}
	if view[0].Length != "0" {
		t.Errorf("length = %q", view[0].Length)
	}
}

// 中途停止：已完成的行保留，取消之后不再出新行，被中断的请求自己不出行
func TestRunStopMidway(t *testing.T) {
	var n atomic.Int64
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) > 1 {
			<-block
		}
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	job := &gqlTypes.Job{
		URL:    srv.URL,
		Query:  "{ users { id } }",
		Marker: markerFor(t, "{ users { id } }", "users"),
		Words:  []string{"a", "b", "c", "d"},
	}
	rs := NewResultSet()
	done := make(chan struct{})
	go func() {
		Run(ctx, job, rs, nil)
		close(done)
	}()

	// 等第一行落地再取消
	for i := 0; i < 100 && rs.Len() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	view := rs.Ordered()
	if len(view) == 0 {
		t.Fatal("completed rows were lost")
	}
	for _, r := range view {
		if r.Status != "200" {
			t.Errorf("aborted request leaked a row: %+v", r)
		}
	}
	if len(view) >= len(job.Words) {
		t.Errorf("no request should complete after cancel, got %d rows", len(view))
	}
}

// basic模式（没有marker）：同一个请求一直打，不吃wordlist，只有取消能停
func TestRunBasicUntilCancelled(t *testing.T) {
	hits := int64(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	job := &gqlTypes.Job{URL: srv.URL, Query: "{ users { id } }"}
	rs := NewResultSet()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, job, rs, nil)
	}()

	// 等它至少完整打出去3发再取消
	deadline := time.Now().Add(5 * time.Second)
	for atomic.LoadInt64(&hits) < 3 {
		if time.Now().After(deadline) {
			t.Fatal("basic mode never got going")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	view := rs.Ordered()
	if len(view) < 3 {
		t.Fatalf("want at least 3 rows before cancel, got %d", len(view))
	}
	for i, r := range view {
		if r.Seq != i+1 {
			t.Errorf("row %d has seq %d", i, r.Seq)
		}
		if r.Word != "" {
			t.Errorf("basic mode should not consume words, got %q", r.Word)
		}
		if r.Status != "200" {
			t.Errorf("row %d status %q", i, r.Status)
		}
	}
}

func TestValidateJob(t *testing.T) {
	if err := ValidateJob(&gqlTypes.Job{}); err != ErrEmptyURL {
		t.Errorf("want ErrEmptyURL, got %v", err)
	}
	m := &gqlTypes.Marker{Start: 0, End: 1, Orig: "x"}
	if err := ValidateJob(&gqlTypes.Job{URL: "http://a", Query: "x", Marker: m}); err != ErrEmptyWordlist {
		t.Errorf("want ErrEmptyWordlist, got %v", err)
	}
	stale := &gqlTypes.Marker{Start: 0, End: 1, Orig: "y"}
	if err := ValidateJob(&gqlTypes.Job{URL: "http://a", Query: "x", Marker: stale, Words: []string{"w"}}); err != ErrStaleMarker {
		t.Errorf("want ErrStaleMarker, got %v", err)
	}
	if err := ValidateJob(&gqlTypes.Job{URL: "http://a", UseProxy: true}); err != ErrNoProxyURL {
		t.Errorf("want ErrNoProxyURL, got %v", err)
	}
	if err := ValidateJob(&gqlTypes.Job{URL: "http://a", Query: "x", Marker: m, Words: []string{"w"}}); err != nil {
		t.Errorf("valid job rejected: %v", err)
	}
}
