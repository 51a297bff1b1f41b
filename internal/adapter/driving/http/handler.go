package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Wyydra/meet/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const UserHeader = "X-User-Id"

type ctxKey struct{}

type Handler struct {
	PostService   *service.PostService
	CallService   *service.CallService
	ConfigService *service.UserConfigService
	Hub           *ws.Hub
}

func NewHandler(postService *service.PostService, callService *service.CallService, configService *service.UserConfigService, hub *ws.Hub) *Handler {
	return &Handler{
		PostService:   postService,
		CallService:   callService,
		ConfigService: configService,
		Hub:           hub,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/ws", h.ServeWS)
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/config", h.GetConfig)
			r.Put("/config", h.PutConfig)
			r.Post("/meetings", h.StartMeeting)
			r.Post("/posts", h.CreatePost)
			r.Get("/channels/{channelID}/posts", h.ListPosts)
		})
	})

	return r
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserHeader))
		if userID == "" {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing "+UserHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, domain.UserID(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(ctx context.Context) domain.UserID {
	id, _ := ctx.Value(ctxKey{}).(domain.UserID)
	return id
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.ConfigService.Get(r.Context(), userFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg.FeatureConfig())
}

func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg domain.UserConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON body")
		return
	}
	if err := h.ConfigService.Set(r.Context(), userFrom(r.Context()), cfg); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg.FeatureConfig())
}

func (h *Handler) StartMeeting(w http.ResponseWriter, r *http.Request) {
	type startMeetingDTO struct {
		ChannelID   string `json:"channel_id"`
		ChannelName string `json:"channel_name"`
		ChannelType string `json:"channel_type"`
		TeamName    string `json:"team_name"`
		UserName    string `json:"user_name"`
	}

	var req startMeetingDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON body")
		return
	}

	userID := userFrom(r.Context())
	cfg, err := h.ConfigService.Get(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	post, err := h.CallService.StartCall(r.Context(), service.StartCallRequest{
		Channel: domain.Channel{
			ID:   domain.ChannelID(req.ChannelID),
			Name: req.ChannelName,
			Type: domain.ChannelType(req.ChannelType),
		},
		Team:     domain.Team{Name: req.TeamName},
		UserID:   userID,
		Username: req.UserName,
		Scheme:   cfg.NamingScheme,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	props, _ := post.MeetingProps()
	writeJSON(w, http.StatusCreated, map[string]any{
		"meeting_id": props.CallName,
		"post":       post,
	})
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var msg domain.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON body")
		return
	}
	msg.AuthorID = userFrom(r.Context())

	stored, err := h.PostService.Submit(r.Context(), msg)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	channelID := domain.ChannelID(chi.URLParam(r, "channelID"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	posts, err := h.PostService.ListChannel(r.Context(), channelID, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if posts == nil {
		posts = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// Error codes sent with every error reply so clients can recover the
// domain error behind a status.
const (
	CodeInvalidContext = "invalid_context"
	CodeInvalidMessage = "invalid_message"
	CodeInvalidConfig  = "invalid_config"
	CodeInvalidRequest = "invalid_request"
	CodeUnauthorized   = "unauthorized"
	CodeNotFound       = "not_found"
	CodeAlreadyExists  = "already_exists"
	CodeInternal       = "internal"
)

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, status, code, http.StatusText(status))
		return
	}
	writeError(w, status, code, err.Error())
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidContext):
		return http.StatusBadRequest, CodeInvalidContext
	case errors.Is(err, domain.ErrInvalidMessage):
		return http.StatusBadRequest, CodeInvalidMessage
	case errors.Is(err, domain.ErrInvalidConfig):
		return http.StatusBadRequest, CodeInvalidConfig
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}
