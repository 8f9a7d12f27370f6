package libggiu

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/tidwall/gjson"
)

func newApiServ(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	s := NewService("", "giu-test-token")
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func apiDo(t *testing.T, srv *httptest.Server, method, path, token, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if token != "" {
		req.Header.Set("Access-Token", token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.String()
}

func TestApiAuth(t *testing.T) {
	_, srv := newApiServ(t)
	if code, _ := apiDo(t, srv, "GET", "/api/words", "", ""); code != 401 {
		t.Fatalf("没token应401, got %d", code)
	}
	if code, _ := apiDo(t, srv, "GET", "/api/words", "wrong", ""); code != 401 {
		t.Fatalf("错token应401, got %d", code)
	}
	if code, _ := apiDo(t, srv, "GET", "/api/words", "giu-test-token", ""); code != 200 {
		t.Fatalf("对token应200, got %d", code)
	}
}

func TestApiRandomToken(t *testing.T) {
	s := NewService("", "")
	if s.AccessToken() == "" {
		t.Fatal("空token应自动生成")
	}
}

func TestApiBeautify(t *testing.T) {
	_, srv := newApiServ(t)
	code, body := apiDo(t, srv, "POST", "/api/beautify", "giu-test-token",
		`{"text":"{users{id}}"}`)
	if code != 200 {
		t.Fatalf("code=%d body=%s", code, body)
	}
	if !strings.Contains(gjson.Get(body, "text").String(), "\n") {
		t.Fatalf("query应被格式化: %s", body)
	}

	// json输入走json美化
	code, body = apiDo(t, srv, "POST", "/api/beautify", "giu-test-token",
		`{"text":"{\"a\":1}"}`)
	if code != 200 || !strings.Contains(gjson.Get(body, "text").String(), "\"a\": 1") {
		t.Fatalf("json应被缩进: %s", body)
	}
}

func TestApiTokenizeAndWords(t *testing.T) {
	_, srv := newApiServ(t)
	code, body := apiDo(t, srv, "POST", "/api/tokenize", "giu-test-token",
		`{"ident":"getUserData"}`)
	if code != 200 {
		t.Fatalf("code=%d body=%s", code, body)
	}
	if len(gjson.Get(body, "tokens").Array()) != 4 {
		t.Fatalf("拆词数量不对: %s", body)
	}

	_, body = apiDo(t, srv, "GET", "/api/words", "giu-test-token", "")
	if len(gjson.Get(body, "words").Array()) != 4 {
		t.Fatalf("词表应包含拆出的词: %s", body)
	}

	if code, _ = apiDo(t, srv, "DELETE", "/api/words", "giu-test-token", ""); code != 204 {
		t.Fatalf("清词表应204, got %d", code)
	}
	_, body = apiDo(t, srv, "GET", "/api/words", "giu-test-token", "")
	if len(gjson.Get(body, "words").Array()) != 0 {
		t.Fatalf("清空后词表应为空: %s", body)
	}
}

func TestApiSend(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer target.Close()

	_, srv := newApiServ(t)
	code, body := apiDo(t, srv, "POST", "/api/send", "giu-test-token",
		`{"url":"`+target.URL+`","query":"{ ok }"}`)
	if code != 200 {
		t.Fatalf("code=%d body=%s", code, body)
	}
	if gjson.Get(body, "status").Int() != 200 {
		t.Fatalf("响应摘要不对: %s", body)
	}

	// 发送失败走500
	code, _ = apiDo(t, srv, "POST", "/api/send", "giu-test-token", `{"query":"{ ok }"}`)
	if code != 500 {
		t.Fatalf("没url应500, got %d", code)
	}
}

func TestApiFuzzFlow(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer target.Close()

	s, srv := newApiServ(t)

	// 先连上结果流
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/results?token=giu-test-token"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close()

	jobJSON := `{"url":"` + target.URL + `","query":"{ users { id } }",` +
		`"marker":{"start":2,"end":7,"orig":"users"},"words":["adminUsers","notes"]}`
	code, body := apiDo(t, srv, "POST", "/api/fuzz", "giu-test-token", jobJSON)
	if code != 200 {
		t.Fatalf("启动fuzz失败: %d %s", code, body)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var row gqlTypes.FuzzResult
	if err := conn.ReadJSON(&row); err != nil {
		t.Fatalf("结果流没推送: %v", err)
	}
	if row.Seq != 1 && row.Seq != 2 {
		t.Fatalf("推送的行不对: %+v", row)
	}

	s.fz.Wait()

	_, body = apiDo(t, srv, "GET", "/api/fuzz", "giu-test-token", "")
	if gjson.Get(body, "status").String() != "idle" || gjson.Get(body, "completed").Int() != 2 {
		t.Fatalf("状态接口不对: %s", body)
	}

	_, body = apiDo(t, srv, "GET", "/api/fuzz/results", "giu-test-token", "")
	if len(gjson.Get(body, "results").Array()) != 2 {
		t.Fatalf("结果接口不对: %s", body)
	}

	// 没任务在跑时DELETE应报错
	if code, _ = apiDo(t, srv, "DELETE", "/api/fuzz", "giu-test-token", ""); code != 500 {
		t.Fatalf("idle时停止应500, got %d", code)
	}
}

func TestApiFuzzValidateError(t *testing.T) {
	_, srv := newApiServ(t)
	code, body := apiDo(t, srv, "POST", "/api/fuzz", "giu-test-token", `{"query":"{ a }"}`)
	if code != 500 || !strings.Contains(body, "error") {
		t.Fatalf("空url的任务应被拒: %d %s", code, body)
	}
}
