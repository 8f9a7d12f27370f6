package libggiu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nostalgist134/GqlGIU/components/common"
	"github.com/nostalgist134/GqlGIU/components/fuzz"
	"github.com/nostalgist134/GqlGIU/components/gql"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/nostalgist134/GqlGIU/components/send"
	"github.com/nostalgist134/GqlGIU/components/wordlist"
)

var (
	errMarkerBounds = errors.New("marker out of query bounds")
	errMarkerEmpty  = errors.New("marker range is empty")
)

// Workbench 请求工作台，保存当前编辑的表单状态、唯一的marker和session词表
// 所有状态只活在内存里，进程退出即消失
type Workbench struct {
	mu      sync.Mutex
	cfg     gqlTypes.ReqConfig
	marker  *gqlTypes.Marker
	session *wordlist.Session
}

func NewWorkbench() *Workbench {
	return &Workbench{session: wordlist.NewSession()}
}

func (w *Workbench) SetURL(u string) {
	w.mu.Lock()
	w.cfg.URL = u
	w.mu.Unlock()
}

func (w *Workbench) SetHeaders(raw string) {
	w.mu.Lock()
	w.cfg.RawHeaders = raw
	w.mu.Unlock()
}

// SetQuery 更新query文本，任何对query的改动都会让marker作废
func (w *Workbench) SetQuery(q string) {
	w.mu.Lock()
	w.cfg.Query = q
	w.marker = nil
	w.mu.Unlock()
}

func (w *Workbench) SetVariables(v string) {
	w.mu.Lock()
	w.cfg.Variables = v
	w.mu.Unlock()
}

func (w *Workbench) SetProxy(use bool, proxyURL string) {
	w.mu.Lock()
	w.cfg.UseProxy = use
	w.cfg.ProxyURL = proxyURL
	w.mu.Unlock()
}

// Config 返回当前表单状态的快照
func (w *Workbench) Config() gqlTypes.ReqConfig {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// Mark 在query的[start,end)区间上放置marker，同时只允许一个存在，重复调用会覆盖
func (w *Workbench) Mark(start, end int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if start < 0 || end > len(w.cfg.Query) {
		return errMarkerBounds
	}
	if start >= end {
		return errMarkerEmpty
	}
	w.marker = &gqlTypes.Marker{Start: start, End: end, Orig: w.cfg.Query[start:end]}
	return nil
}

func (w *Workbench) ClearMarker() {
	w.mu.Lock()
	w.marker = nil
	w.mu.Unlock()
}

// Marker 返回当前marker的快照，没有则为nil
func (w *Workbench) Marker() *gqlTypes.Marker {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.marker == nil {
		return nil
	}
	m := *w.marker
	return &m
}

// Beautify 格式化query与variables，query文本被改动，所以marker同样作废
func (w *Workbench) Beautify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	q := gql.BeautifyQuery(w.cfg.Query)
	if q != w.cfg.Query {
		w.cfg.Query = q
		w.marker = nil
	}
	if w.cfg.Variables != "" {
		w.cfg.Variables = gql.BeautifyJSON(w.cfg.Variables)
	}
}

// Send 按当前表单状态发送一次请求，成功后把query、variables和响应body里的标识符收进session词表
func (w *Workbench) Send(ctx context.Context) (*gqlTypes.Resp, error) {
	w.mu.Lock()
	cfg := w.cfg
	w.mu.Unlock()
	if cfg.URL == "" {
		return nil, send.ErrNoURL
	}
	if cfg.UseProxy && cfg.ProxyURL == "" {
		return nil, fmt.Errorf("proxy is enabled but no proxy url is set")
	}

	headers := common.EnsureContentType(common.ParseHeaderBlock(cfg.RawHeaders))
	meta := &gqlTypes.SendMeta{
		URL:      cfg.URL,
		Method:   "POST",
		Headers:  headers,
		Body:     fuzz.BuildBody(cfg.Query, cfg.Variables),
		UseProxy: cfg.UseProxy,
		ProxyURL: cfg.ProxyURL,
	}
	resp, err := send.Request(ctx, meta)
	if err != nil {
		return nil, err
	}
	w.session.HarvestQuery(cfg.Query)
	w.session.HarvestJSON(cfg.Variables)
	w.session.HarvestJSON(resp.Body)
	return resp, nil
}

// AddWord 把一个标识符拆词后加进session词表，返回拆出来的词
func (w *Workbench) AddWord(ident string) []string {
	tokens := wordlist.Tokenize(ident)
	w.session.Add(ident)
	return tokens
}

func (w *Workbench) SessionWords() []string {
	return w.session.Words()
}

func (w *Workbench) ClearSessionWords() {
	w.session.Clear()
}

// Handoff 把当前表单状态和marker打成快照交给fuzzer，显式传参而不是共享状态
func (w *Workbench) Handoff() *gqlTypes.Handoff {
	w.mu.Lock()
	defer w.mu.Unlock()
	h := &gqlTypes.Handoff{Config: w.cfg}
	if w.marker != nil {
		m := *w.marker
		h.Marker = &m
	}
	return h
}
