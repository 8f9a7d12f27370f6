package gqlTypes

import "encoding/json"

type (
	// ReqConfig workbench的表单状态，整个生命周期都在内存里，进程退出即消失
	ReqConfig struct {
		URL        string `json:"url"`
		RawHeaders string `json:"raw_headers"`
		Body       string `json:"body"`
		Query      string `json:"query"`
		Variables  string `json:"variables"`
		UseProxy   bool   `json:"use_proxy"`
		ProxyURL   string `json:"proxy_url"`
	}

	// Marker 标记query文本中被替换的区间，Orig保存标记时刻的原文用于校验
	// 整个workbench同时只允许一个marker存在
	Marker struct {
		Start int    `json:"start"`
		End   int    `json:"end"`
		Orig  string `json:"orig"`
	}

	// FuzzResult 单次fuzz请求的结果行，Seq从1开始
	FuzzResult struct {
		Seq         int               `json:"seq"`
		Word        string            `json:"word"`
		Status      string            `json:"status"`
		Length      string            `json:"length"`
		TimeMs      int64             `json:"time_ms"`
		ReqBody     string            `json:"req_body,omitempty"`
		RespBody    string            `json:"resp_body,omitempty"`
		RespHeaders map[string]string `json:"resp_headers,omitempty"`
	}

	// Resp 发送单个请求得到的响应摘要
	Resp struct {
		Status     int               `json:"status"`
		StatusText string            `json:"status_text"`
		Headers    map[string]string `json:"headers"`
		Body       string            `json:"body"`
		TimeMs     int64             `json:"time_ms"`
		ErrMsg     string            `json:"err_msg,omitempty"`
	}

	// SendMeta 发送请求的上下文，Route决定走代理还是直连
	SendMeta struct {
		URL      string
		Method   string
		Headers  map[string]string
		Body     []byte
		UseProxy bool
		ProxyURL string
	}

	// ForwardRequest 转发代理的请求信封，url和targetUrl二选一（url优先）
	ForwardRequest struct {
		URL       string            `json:"url,omitempty"`
		TargetURL string            `json:"targetUrl,omitempty"`
		Method    string            `json:"method,omitempty"`
		Headers   map[string]string `json:"headers,omitempty"`
		Body      json.RawMessage   `json:"body,omitempty"`
	}

	// ForwardResponse 转发代理的响应信封
	ForwardResponse struct {
		Status     int               `json:"status"`
		StatusText string            `json:"statusText"`
		Headers    map[string]string `json:"headers"`
		Body       string            `json:"body"`
		IsError    bool              `json:"isError"`
		Error      string            `json:"error,omitempty"`
	}

	// Job 一次fuzz任务的全部配置
	// Marker为nil时是basic模式：不做替换，重复发送原始请求直到手动停止
	Job struct {
		URL       string            `json:"url"`
		Method    string            `json:"method,omitempty"`
		Headers   map[string]string `json:"headers,omitempty"`
		Query     string            `json:"query"`
		Variables string            `json:"variables,omitempty"`
		Marker    *Marker           `json:"marker,omitempty"`
		Words     []string          `json:"words"`
		Threads   int               `json:"threads,omitempty"`
		DelayMs   int               `json:"delay_ms,omitempty"`
		UseProxy  bool              `json:"use_proxy,omitempty"`
		ProxyURL  string            `json:"proxy_url,omitempty"`
	}

	// Handoff workbench跳转到fuzzer时传递的快照，显式传参而不是共享全局状态
	Handoff struct {
		Config ReqConfig `json:"config"`
		Marker *Marker   `json:"marker,omitempty"`
	}
)
