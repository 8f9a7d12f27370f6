package proxy

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
)

// 明文和TLS各一个客户端，按目标url的scheme选
var (
	plainCli = &http.Client{}
	tlsCli   = &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
)

// relay 真正出网的一跳：读完整个响应体，多值头拍平成单个串，包成响应信封
func (s *Server) relay(ctx context.Context, fr *gqlTypes.ForwardRequest) *gqlTypes.ForwardResponse {
	target := fr.Target()
	u, err := url.Parse(target)
	if err != nil {
		return errEnvelope(fmt.Errorf("bad target url %q: %v", target, err))
	}

	var cli *http.Client
	switch u.Scheme {
	case "http":
		cli = plainCli
	case "https":
		cli = tlsCli
	default:
		return errEnvelope(fmt.Errorf("unsupported scheme %q", u.Scheme))
	}

	method := fr.Method
	if method == "" {
		method = http.MethodPost
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(fr.BodyString()))
	if err != nil {
		return errEnvelope(err)
	}
	for name, value := range fr.Headers {
		// content-length由传输层重算
		if strings.EqualFold(name, "content-length") {
			continue
		}
		if strings.EqualFold(name, "host") {
			req.Host = value
			continue
		}
		req.Header.Set(name, value)
	}

	resp, err := cli.Do(req)
	if err != nil {
		// 超时要和其他网络错误区分着报
		if errors.Is(err, context.DeadlineExceeded) {
			return errEnvelope(fmt.Errorf("request timed out after %s", s.timeout))
		}
		return errEnvelope(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errEnvelope(fmt.Errorf("reading response body: %v", err))
	}

	headers := make(map[string]string, len(resp.Header))
	for name, values := range resp.Header {
		headers[name] = strings.Join(values, ", ")
	}

	return &gqlTypes.ForwardResponse{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    headers,
		Body:       string(raw),
		IsError:    resp.StatusCode < 200 || resp.StatusCode > 299,
	}
}
