package httpapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/industry"
	"lead-qualifier/internal/lead"
	"lead-qualifier/internal/models"

	"github.com/labstack/echo/v4"
)

const maxRecentLimit = 100

type createRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Source         string `json:"source"`
	Industry       string `json:"industry"`
	InitialMessage string `json:"initialMessage"`
}

type messageRequest struct {
	Message string `json:"message"`
}

// conversationView is the wire form of a conversation. The owning session is
// never echoed back.
type conversationView struct {
	ID             string                       `json:"id"`
	Lead           models.Lead                  `json:"lead"`
	Industry       industry.Summary             `json:"industry"`
	Messages       []models.Message             `json:"messages"`
	Metadata       models.Metadata              `json:"metadata"`
	Status         models.ConversationStatus    `json:"status"`
	StartTime      time.Time                    `json:"startTime"`
	LastUpdateTime time.Time                    `json:"lastUpdateTime"`
	Classification *models.ClassificationResult `json:"classification,omitempty"`
}

func newConversationView(c *models.Conversation) conversationView {
	return conversationView{
		ID:             c.ID,
		Lead:           c.Lead,
		Industry:       industry.Summary{ID: c.Industry.ID, Name: c.Industry.Name},
		Messages:       c.Messages,
		Metadata:       c.Metadata,
		Status:         c.Status,
		StartTime:      c.StartTime,
		LastUpdateTime: c.LastUpdateTime,
		Classification: c.Classification,
	}
}

func (s *Server) createConversation(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewValidationError("request body must be a JSON object")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	res, err := s.service.CreateConversation(ctx, c.Request().Header.Get(SessionHeader), lead.Info{
		Name:           req.Name,
		Phone:          req.Phone,
		Source:         req.Source,
		Industry:       req.Industry,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(SessionHeader, res.SessionID)
	return c.JSON(http.StatusCreated, res)
}

func (s *Server) submitMessage(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewValidationError("request body must be a JSON object")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	res, err := s.service.SubmitUserMessage(ctx, c.Param("id"), c.Request().Header.Get(SessionHeader), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getConversation(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	conv, err := s.service.GetConversation(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newConversationView(conv))
}

func (s *Server) listConversations(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	convs, err := s.service.ListConversations(ctx)
	if err != nil {
		return err
	}

	out := make([]conversationView, 0, len(convs))
	for _, conv := range convs {
		out = append(out, newConversationView(conv))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversations": out,
		"total":         len(out),
	})
}

func (s *Server) finalize(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	res, err := s.service.Finalize(ctx, c.Param("id"), c.Request().Header.Get(SessionHeader))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) listIndustries(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"industries": s.industries.List(),
	})
}

func (s *Server) recentClassifications(c echo.Context) error {
	limit := 20
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return errors.NewValidationError("limit must be a positive integer")
		}
		limit = n
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	records, err := s.records.Recent(ctx, limit)
	if err != nil {
		return errors.NewPersistenceFailedError("ledger", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"records": records,
		"total":   len(records),
	})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ready(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	names := make([]string, 0, len(s.opts.Checks))
	for name := range s.opts.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.opts.Checks[name](ctx); err != nil {
			s.logger.WithError(err).Warn("readiness check failed", map[string]interface{}{"check": name})
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	return c.JSON(status, map[string]interface{}{"status": state, "checks": results})
}
