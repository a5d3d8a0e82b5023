// Package httpapi exposes the conversation service over HTTP.
package httpapi

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/conversation"
	"lead-qualifier/internal/industry"
	"lead-qualifier/internal/lead"
	"lead-qualifier/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const SessionHeader = "X-Session-ID"

type ConversationService interface {
	CreateConversation(ctx context.Context, sessionID string, info lead.Info) (*conversation.CreateResult, error)
	SubmitUserMessage(ctx context.Context, conversationID, sessionID, text string) (*conversation.TurnResult, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context) ([]*models.Conversation, error)
	Finalize(ctx context.Context, id, sessionID string) (*conversation.FinalizeResult, error)
}

type IndustryLister interface {
	List() []industry.Summary
}

type RecordReader interface {
	Recent(ctx context.Context, n int) ([]models.ClassificationRecord, error)
}

// Check reports whether a dependency is usable. Checks back /ready.
type Check func(ctx context.Context) error

type Options struct {
	RequestTimeout time.Duration
	Checks         map[string]Check
}

type Server struct {
	echo       *echo.Echo
	service    ConversationService
	industries IndustryLister
	records    RecordReader
	opts       Options
	logger     logger.Logger
}

func NewServer(service ConversationService, industries IndustryLister, records RecordReader, opts Options, log logger.Logger) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	s := &Server{
		echo:       echo.New(),
		service:    service,
		industries: industries,
		records:    records,
		opts:       opts,
		logger:     log.WithFields(map[string]interface{}{"component": "http"}),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request", map[string]interface{}{
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latencyMs": v.Latency.Milliseconds(),
			})
			return nil
		},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.GET("/ready", s.ready)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.POST("/conversations", s.createConversation)
	api.GET("/conversations", s.listConversations)
	api.GET("/conversations/:id", s.getConversation)
	api.POST("/conversations/:id/messages", s.submitMessage)
	api.POST("/conversations/:id/finalize", s.finalize)
	api.GET("/industries", s.listIndustries)
	api.GET("/classifications", s.recentClassifications)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Serve blocks until the listener fails or Shutdown is called.
func (s *Server) Serve(addr string, readTimeout, writeTimeout time.Duration) error {
	s.echo.Server.ReadTimeout = readTimeout
	s.echo.Server.WriteTimeout = writeTimeout
	s.logger.Info("http server listening", map[string]interface{}{"address": addr})
	if err := s.echo.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps service errors onto status codes. Only the safe message
// leaves the process; details are logged.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, errorResponse{Error: http.StatusText(httpErr.Code)})
		return
	}

	std := errors.AsStandard(err)
	status := errors.HTTPStatus(std.Code)
	fields := map[string]interface{}{
		"code":   string(std.Code),
		"path":   c.Path(),
		"status": status,
	}
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed", fields)
	} else {
		s.logger.WithError(err).Debug("request rejected", fields)
	}
	_ = c.JSON(status, errorResponse{Error: errors.SafeMessage(err)})
}

func (s *Server) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.opts.RequestTimeout)
}
