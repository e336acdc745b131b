package handler

import (
	"log/slog"
	"net/http"

	"verbum/internal/domain/models"
	"verbum/internal/domain/services"
	"verbum/internal/httputil"
)

// ChatHandler handles chat HTTP requests.
// Handlers only communicate with services, never repositories.
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Converse handles one chat turn
// POST /api/chat
// Returns 402 when the user's quota is exhausted.
func (h *ChatHandler) Converse(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.ConverseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	result, err := h.chatService.Converse(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// History returns the user's stored conversation
// GET /api/chat/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	turns, err := h.chatService.History(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]models.Turn{"turns": turns})
}

// Quota returns the user's current standing
// GET /api/quota
func (h *ChatHandler) Quota(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	remaining, err := h.chatService.Remaining(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.QuotaRecord{
		UserID:    userID,
		Remaining: remaining,
	})
}
