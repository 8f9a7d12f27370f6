package send

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/tidwall/gjson"
)

// 打到本地转发代理的客户端，代理自己有超时，这边不再叠一层
var proxyCli = &http.Client{}

// ForwardPath 转发代理唯一的路由
const ForwardPath = "/forward"

// ForwardURL 把用户填的代理地址归一化成完整的转发端点url
func ForwardURL(proxyURL string) string {
	u := strings.TrimRight(proxyURL, "/")
	if strings.HasSuffix(u, ForwardPath) {
		return u
	}
	return u + ForwardPath
}

// viaProxy 把真实请求包进一层json信封发给本地转发代理，由代理替我们出网
func viaProxy(ctx context.Context, meta *gqlTypes.SendMeta) (*gqlTypes.Resp, error) {
	start := time.Now()

	envelope := gqlTypes.ForwardRequest{
		URL:     meta.URL,
		Method:  meta.Method,
		Headers: meta.Headers,
	}
	// 空body不能塞进RawMessage，marshal会炸；不是json的body按字符串传，代理那边原样转发
	if len(meta.Body) > 0 {
		if gjson.ValidBytes(meta.Body) {
			envelope.Body = json.RawMessage(meta.Body)
		} else {
			quoted, _ := json.Marshal(string(meta.Body))
			envelope.Body = quoted
		}
	}
	envBytes, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		ForwardURL(meta.ProxyURL), bytes.NewReader(envBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := proxyCli.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	fwd := gqlTypes.ForwardResponse{}
	if err = json.Unmarshal(raw, &fwd); err != nil {
		return nil, fmt.Errorf("bad proxy response: %w", err)
	}
	if fwd.Error != "" {
		return nil, &ProxyError{Msg: fwd.Error}
	}

	headers := fwd.Headers
	if headers == nil {
		headers = make(map[string]string)
	}
	return &gqlTypes.Resp{
		Status:     fwd.Status,
		StatusText: fwd.StatusText,
		Headers:    headers,
		Body:       fwd.Body,
		TimeMs:     time.Since(start).Milliseconds(),
	}, nil
}
