// internal/api/server.go
package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tamzrod/deflector-control/internal/deflector"
	"github.com/tamzrod/deflector-control/internal/status"
)

// Operations is the PLC surface exposed over HTTP.
type Operations interface {
	ReadStatus() (status.Deflector, error)
	SetAutoMode() error
	SetManualMode() error
	PressButton(name string) error
}

// Server maps HTTP requests onto Operations.
// Only one PLC operation runs at a time.
type Server struct {
	mu  sync.Mutex
	ops Operations
	log *zap.SugaredLogger
}

type result struct {
	Success bool   `json:"success"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}

type statusResult struct {
	Success bool   `json:"success"`
	Auto    bool   `json:"auto"`
	Manual  bool   `json:"manual"`
	Mode    string `json:"mode"`
	Message string `json:"message,omitempty"`
}

func New(ops Operations, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{ops: ops, log: log}
}

// Handler returns the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog)

	api := r.Group("/api")
	{
		api.GET("/deflector/status", s.getStatus)
		api.POST("/deflector/mode/auto", s.setMode(status.ModeAuto))
		api.POST("/deflector/mode/manual", s.setMode(status.ModeManual))
		api.POST("/buttons/:name/press", s.pressButton)
	}
	return r
}

func (s *Server) accessLog(c *gin.Context) {
	c.Next()
	s.log.Debugw("http request",
		"method", c.Request.Method, "path", c.FullPath(), "status", c.Writer.Status())
}

func (s *Server) getStatus(c *gin.Context) {
	s.mu.Lock()
	st, err := s.ops.ReadStatus()
	s.mu.Unlock()

	if err != nil {
		s.log.Errorw("status read failed", "error", err)
		c.JSON(http.StatusBadGateway, statusResult{Mode: status.ModeUnknown.String(), Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, statusResult{
		Success: true,
		Auto:    st.Auto,
		Manual:  st.Manual,
		Mode:    st.Mode().String(),
	})
}

func (s *Server) setMode(want status.Mode) gin.HandlerFunc {
	op := s.ops.SetAutoMode
	if want == status.ModeManual {
		op = s.ops.SetManualMode
	}

	return func(c *gin.Context) {
		s.mu.Lock()
		err := op()
		s.mu.Unlock()

		s.respond(c, err, "deflector set to "+strings.ToLower(want.String()))
	}
}

func (s *Server) pressButton(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	err := s.ops.PressButton(name)
	s.mu.Unlock()

	s.respond(c, err, "button "+name+" pressed")
}

func (s *Server) respond(c *gin.Context, err error, okMessage string) {
	outcome := deflector.OutcomeOf(err)
	if err == nil {
		c.JSON(http.StatusOK, result{Success: true, Outcome: outcome.String(), Message: okMessage})
		return
	}

	code := statusCode(err, outcome)
	s.log.Errorw("operation failed", "path", c.FullPath(), "outcome", outcome.String(), "error", err)
	c.JSON(code, result{Outcome: outcome.String(), Message: err.Error()})
}

func statusCode(err error, outcome status.Outcome) int {
	switch {
	case errors.Is(err, deflector.ErrUnknownButton):
		return http.StatusNotFound
	case outcome == status.OutcomePartial, outcome == status.OutcomeStuck:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
