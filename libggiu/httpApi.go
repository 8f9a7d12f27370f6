package libggiu

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nostalgist134/GqlGIU/components/common"
	"github.com/nostalgist134/GqlGIU/components/gql"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/nostalgist134/GqlGIU/components/output"
)

const defServAddr = "127.0.0.1:8880"

// Service workbench的http api，前端只和它说话
// 所有接口都要带Access-Token头（websocket可以用query参数token代替）
type Service struct {
	addr        string
	accessToken string
	e           *echo.Echo
	wb          *Workbench
	fz          *Fuzzer
	hub         *output.WsHub
	wg          sync.WaitGroup
}

func errorMsg(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

// NewService token为空时自动生成一个随机token
func NewService(addr, token string) *Service {
	if addr == "" {
		addr = defServAddr
	}
	if token == "" {
		token = common.RandMarker()
	}

	s := &Service{
		addr:        addr,
		accessToken: token,
		wb:          NewWorkbench(),
		fz:          NewFuzzer(),
		hub:         output.NewWsHub(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORS())

	auth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get("Access-Token")
			if token == "" {
				token = c.QueryParam("token")
			}
			if token != s.accessToken {
				return c.NoContent(401)
			}
			return next(c)
		}
	}

	g := e.Group("/api", auth)
	g.POST("/beautify", s.beautify)
	g.POST("/tokenize", s.tokenize)
	g.POST("/send", s.sendOnce)
	g.GET("/words", s.getWords)
	g.DELETE("/words", s.clearWords)
	g.POST("/fuzz", s.startFuzz)
	g.DELETE("/fuzz", s.stopFuzz)
	g.GET("/fuzz", s.fuzzStatus)
	g.GET("/fuzz/results", s.fuzzResults)
	e.GET("/ws/results", s.wsResults, auth)

	s.e = e
	return s
}

func (s *Service) beautify(c echo.Context) error {
	req := struct {
		Text string `json:"text"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, errorMsg(fmt.Errorf("failed to unmarshal body: %v", err)))
	}
	return c.JSON(200, map[string]string{"text": gql.Beautify(req.Text)})
}

func (s *Service) tokenize(c echo.Context) error {
	req := struct {
		Ident string `json:"ident"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, errorMsg(fmt.Errorf("failed to unmarshal body: %v", err)))
	}
	tokens := s.wb.AddWord(req.Ident)
	return c.JSON(200, map[string]interface{}{"tokens": tokens})
}

// sendOnce 把表单状态写进workbench再发送，响应里的标识符顺手收进session词表
func (s *Service) sendOnce(c echo.Context) error {
	cfg := new(gqlTypes.ReqConfig)
	if err := c.Bind(cfg); err != nil {
		return c.JSON(400, errorMsg(fmt.Errorf("failed to unmarshal request config: %v", err)))
	}
	s.wb.SetURL(cfg.URL)
	s.wb.SetHeaders(cfg.RawHeaders)
	s.wb.SetQuery(cfg.Query)
	s.wb.SetVariables(cfg.Variables)
	s.wb.SetProxy(cfg.UseProxy, cfg.ProxyURL)

	resp, err := s.wb.Send(c.Request().Context())
	if err != nil {
		return c.JSON(500, errorMsg(err))
	}
	return c.JSON(200, resp)
}

func (s *Service) getWords(c echo.Context) error {
	return c.JSON(200, map[string]interface{}{"words": s.wb.SessionWords()})
}

func (s *Service) clearWords(c echo.Context) error {
	s.wb.ClearSessionWords()
	return c.NoContent(204)
}

// startFuzz 结果行一边落进结果集一边经websocket推给在线客户端
func (s *Service) startFuzz(c echo.Context) error {
	job := new(gqlTypes.Job)
	if err := c.Bind(job); err != nil {
		return c.JSON(400, errorMsg(fmt.Errorf("failed to unmarshal job: %v", err)))
	}
	// 没带词表的任务用session词表兜底
	if len(job.Words) == 0 && job.Marker != nil {
		job.Words = s.wb.SessionWords()
	}
	if err := s.fz.Start(job, s.hub.Broadcast); err != nil {
		return c.JSON(500, errorMsg(fmt.Errorf("failed to start job: %v", err)))
	}
	return c.JSON(200, map[string]string{"status": "started"})
}

func (s *Service) stopFuzz(c echo.Context) error {
	if err := s.fz.Stop(); err != nil {
		return c.JSON(500, errorMsg(err))
	}
	return c.NoContent(204)
}

func (s *Service) fuzzStatus(c echo.Context) error {
	completed, total := s.fz.Progress()
	status := "idle"
	if s.fz.Status() == FuzzerStatRunning {
		status = "running"
	}
	return c.JSON(200, map[string]interface{}{
		"status":    status,
		"completed": completed,
		"total":     total,
		"errors":    output.Cntr.GetErrors(),
		"rate":      output.Cntr.GetRate(),
	})
}

func (s *Service) fuzzResults(c echo.Context) error {
	return c.JSON(200, map[string]interface{}{"results": s.fz.Results()})
}

func (s *Service) wsResults(c echo.Context) error {
	return s.hub.Serve(c.Response(), c.Request())
}

func (s *Service) AccessToken() string {
	return s.accessToken
}

func (s *Service) Addr() string {
	return s.addr
}

// Handler 暴露底层handler给测试用
func (s *Service) Handler() http.Handler {
	return s.e
}

// Workbench 暴露内部workbench，命令行模式下直接操作用
func (s *Service) Workbench() *Workbench {
	return s.wb
}

func (s *Service) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()
}

func (s *Service) Shutdown(ctx context.Context) error {
	s.fz.Stop()
	s.hub.CloseAll()
	err := s.e.Shutdown(ctx)
	s.wg.Wait()
	return err
}
