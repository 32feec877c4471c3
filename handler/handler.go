package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"faq-agent/internal/domain"
	"faq-agent/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// Service is the chat behaviour exposed over HTTP.
type Service interface {
	Ask(ctx context.Context, in usecase.AskInput) (usecase.AskOutput, error)
	Transcript(ctx context.Context, sessionID string) ([]domain.Message, error)
}

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId"`
}

type askResponse struct {
	Answer    string           `json:"answer"`
	SessionID string           `json:"sessionId"`
	Source    string           `json:"source"`
	Topic     string           `json:"topic,omitempty"`
	Messages  []domain.Message `json:"messages"`
}

type transcriptResponse struct {
	SessionID string           `json:"sessionId"`
	Messages  []domain.Message `json:"messages"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Handler serves the chat API behind an API Gateway proxy integration.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("handler: service must not be nil")
	}
	return &Handler{svc: svc, logger: slog.Default()}, nil
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(req.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	resp := h.route(ctx, req)
	resp.Headers[correlationHeader] = correlationID

	h.logger.InfoContext(ctx, "request handled",
		"correlation_id", correlationID,
		"method", req.HTTPMethod,
		"path", req.Path,
		"status", resp.StatusCode,
	)
	return resp, nil
}

func (h *Handler) route(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	switch strings.TrimRight(req.Path, "/") {
	case "/ask":
		if req.HTTPMethod != http.MethodPost {
			return jsonResponse(http.StatusMethodNotAllowed, errorResponse{Error: "METHOD_NOT_ALLOWED"})
		}
		return h.ask(ctx, req)
	case "/transcript":
		if req.HTTPMethod != http.MethodGet {
			return jsonResponse(http.StatusMethodNotAllowed, errorResponse{Error: "METHOD_NOT_ALLOWED"})
		}
		return h.transcript(ctx, req)
	default:
		return jsonResponse(http.StatusNotFound, errorResponse{Error: "NOT_FOUND"})
	}
}

func (h *Handler) ask(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body askRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return jsonResponse(http.StatusBadRequest, errorResponse{
			Error:  string(usecase.ErrorInvalidInput),
			Reason: "invalid_json",
		})
	}

	out, err := h.svc.Ask(ctx, usecase.AskInput{Question: body.Question, SessionID: body.SessionID})
	if err != nil {
		return h.errorResponse(ctx, err)
	}
	return jsonResponse(http.StatusOK, askResponse{
		Answer:    out.Answer,
		SessionID: out.SessionID,
		Source:    string(out.Source),
		Topic:     string(out.Topic),
		Messages:  out.Messages,
	})
}

func (h *Handler) transcript(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	sessionID := req.QueryStringParameters["sessionId"]
	msgs, err := h.svc.Transcript(ctx, sessionID)
	if err != nil {
		return h.errorResponse(ctx, err)
	}
	return jsonResponse(http.StatusOK, transcriptResponse{SessionID: strings.TrimSpace(sessionID), Messages: msgs})
}

func (h *Handler) errorResponse(ctx context.Context, err error) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		h.logger.ErrorContext(ctx, "unexpected error", "err", err)
		return jsonResponse(http.StatusInternalServerError, errorResponse{Error: string(usecase.ErrorInternal)})
	}

	status := http.StatusInternalServerError
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		status = http.StatusBadRequest
	case usecase.ErrorInternal:
		h.logger.ErrorContext(ctx, "request failed", "reason", ucErr.Reason, "err", ucErr.Err)
	}
	return jsonResponse(status, errorResponse{Error: string(ucErr.Code), Reason: ucErr.Reason})
}

func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

// headerValue looks a header up case-insensitively; API Gateway forwards
// whatever casing the client sent.
func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
