package lab

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const DefServAddr = "127.0.0.1:8882"

// Server 练习靶场：单端点POST graphql，introspection和playground全开着，
// 报错带时间戳和调用栈——都是故意的，这个包是靶子不是基础设施
type Server struct {
	e      *echo.Echo
	addr   string
	schema graphql.Schema
}

type gqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

func New(addr string) (*Server, error) {
	if addr == "" {
		addr = DefServAddr
	}
	schema, err := buildSchema()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORS())

	s := &Server{e: e, addr: addr, schema: schema}
	e.POST("/graphql", s.handleGraphQL)
	e.GET("/graphql", s.handlePlayground)
	e.GET("/", s.handlePlayground)
	return s, nil
}

func (s *Server) handleGraphQL(c echo.Context) error {
	req := new(gqlRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(400, map[string]string{"error": "body must be json {query, variables}"})
	}

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request().Context(),
	})

	resp := map[string]interface{}{}
	if result.Data != nil {
		resp["data"] = result.Data
	}
	if len(result.Errors) > 0 {
		errs := make([]map[string]interface{}, 0, len(result.Errors))
		for _, gerr := range result.Errors {
			errs = append(errs, map[string]interface{}{
				"message":   gerr.Message,
				"locations": gerr.Locations,
				"path":      gerr.Path,
				// 把栈和时间戳塞进extensions，泄露是这个靶子的卖点
				"extensions": map[string]interface{}{
					"timestamp":  time.Now().Format(time.RFC3339),
					"stacktrace": stackLines(8),
				},
			})
		}
		resp["errors"] = errs
	}
	return c.JSON(200, resp)
}

func stackLines(n int) []string {
	lines := strings.Split(string(debug.Stack()), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

func (s *Server) handlePlayground(c echo.Context) error {
	return c.HTML(200, playgroundHTML)
}

// Handler 暴露底层handler给测试用
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Addr() string {
	return s.addr
}

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

const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
  <title>GqlGIU lab</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css"/>
  <script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
</head>
<body>
  <div id="root"></div>
  <script>
    window.addEventListener('load', function () {
      GraphQLPlayground.init(document.getElementById('root'), { endpoint: '/graphql' })
    })
  </script>
</body>
</html>`
