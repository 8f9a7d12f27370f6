package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nostalgist134/GqlGIU/components/common"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/nostalgist134/GqlGIU/components/send"
)

const (
	DefServAddr       = "127.0.0.1:8881"
	DefTimeoutSeconds = 30

	// EnvPort 覆盖监听端口的环境变量
	EnvPort = "GQLGIU_PROXY_PORT"
)

// Server 本地转发代理：浏览器把真实请求包在json信封里发过来，
// 由这个进程替它出网，绕开浏览器的CORS限制
type Server struct {
	e       *echo.Echo
	addr    string
	timeout time.Duration
}

// New 创建转发代理，addr为空用默认地址，GQLGIU_PROXY_PORT能覆盖端口
func New(addr string, timeoutSec int) *Server {
	if addr == "" {
		addr = DefServAddr
	}
	if p := os.Getenv(EnvPort); p != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil || host == "" {
			host = "127.0.0.1"
		}
		addr = net.JoinHostPort(host, p)
	}
	if timeoutSec <= 0 {
		timeoutSec = DefTimeoutSeconds
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// 本地端点对所有来源放开CORS，这玩意儿存在的意义就是绕CORS
	e.Use(middleware.CORS())

	s := &Server{
		e:       e,
		addr:    addr,
		timeout: time.Duration(timeoutSec) * time.Second,
	}

	e.POST(send.ForwardPath, s.handleForward)
	e.OPTIONS(send.ForwardPath, func(c echo.Context) error {
		return c.NoContent(204)
	})
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(404, map[string]string{"error": "not found, POST " + send.ForwardPath})
	})
	return s
}

// errEnvelope 代理侧任何异常都转成结构化的500信封，绝不把裸异常抛给调用方
func errEnvelope(err error) *gqlTypes.ForwardResponse {
	return &gqlTypes.ForwardResponse{
		Status:     0,
		StatusText: "Proxy Error",
		Headers:    map[string]string{},
		Body:       "",
		IsError:    true,
		Error:      err.Error(),
	}
}

func (s *Server) handleForward(c echo.Context) error {
	fr := new(gqlTypes.ForwardRequest)
	if err := c.Bind(fr); err != nil {
		return c.JSON(500, errEnvelope(fmt.Errorf("bad forward request: %v", err)))
	}
	if fr.Target() == "" {
		return c.JSON(500, errEnvelope(errors.New("missing target url")))
	}

	common.Debugf("forwarding %s %s", fr.Method, fr.Target())
	env := s.relay(c.Request().Context(), fr)
	if env.Error != "" {
		common.Debugf("forward failed: %s", env.Error)
		return c.JSON(500, env)
	}
	common.Debugf("forward done: %d, %d bytes", env.Status, len(env.Body))
	return c.JSON(200, env)
}

// Handler 暴露底层handler，测试直接挂httptest上用
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Addr() string {
	return s.addr
}

// Start 阻塞运行直到Shutdown
func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
