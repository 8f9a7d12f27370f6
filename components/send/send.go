package send

import (
	"context"
	"errors"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
)

var ErrNoURL = errors.New("no target url")

// ProxyError 转发代理在信封里报告的上游错误，和本地网络错误区分开，
// 结果行里前缀不一样（"Proxy Error: " / "Error: "）
type ProxyError struct {
	Msg string
}

func (e *ProxyError) Error() string {
	return e.Msg
}

// Request 根据meta发送一个请求并读完响应，走代理还是直连由meta.UseProxy决定
// ctx取消时尽快返回ctx.Err()，已经发出去的请求按底层语义自生自灭
func Request(ctx context.Context, meta *gqlTypes.SendMeta) (*gqlTypes.Resp, error) {
	if meta.URL == "" {
		return nil, ErrNoURL
	}
	if meta.UseProxy {
		return viaProxy(ctx, meta)
	}
	return direct(ctx, meta)
}
