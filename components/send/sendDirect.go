package send

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/valyala/fasthttp"
)

var defaultDial = (&fasthttp.TCPDialer{
	Concurrency:      16,
	DNSCacheDuration: time.Hour,
}).Dial

// 直连用的fasthttp客户端，fuzzer自己不强加超时（只有代理那边有超时）
var fastCli = &fasthttp.Client{
	MaxIdleConnDuration:      90 * time.Second,
	NoDefaultUserAgentHeader: true,
	TLSConfig:                &tls.Config{InsecureSkipVerify: true},
	Dial:                     defaultDial,
}

type directResult struct {
	status  int
	headers map[string]string
	body    string
	err     error
}

// direct 直接把请求打到目标上
// 请求在单独的goroutine里跑，这样ctx取消时调用方能立刻返回，
// 不用等一个可能永远不回来的响应（fasthttp本身不支持中途取消）
func direct(ctx context.Context, meta *gqlTypes.SendMeta) (*gqlTypes.Resp, error) {
	start := time.Now()
	ch := make(chan directResult, 1)

	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		method := meta.Method
		if method == "" {
			method = http.MethodPost
		}
		req.Header.SetMethod(method)
		req.SetRequestURI(meta.URL)
		for name, value := range meta.Headers {
			if strings.EqualFold(name, "host") {
				req.UseHostHeader = true
				req.Header.SetHost(value)
			} else {
				req.Header.Set(name, value)
			}
		}
		req.SetBody(meta.Body)

		if err := fastCli.Do(req, resp); err != nil {
			ch <- directResult{err: err}
			return
		}
		headers := make(map[string]string)
		resp.Header.VisitAll(func(key, value []byte) {
			headers[string(key)] = string(value)
		})
		ch <- directResult{
			status:  resp.StatusCode(),
			headers: headers,
			body:    string(resp.Body()),
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return &gqlTypes.Resp{
			Status:     res.status,
			StatusText: http.StatusText(res.status),
			Headers:    res.headers,
			Body:       res.body,
			TimeMs:     time.Since(start).Milliseconds(),
		}, nil
	}
}
