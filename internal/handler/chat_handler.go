package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipdesk/internal/service"
)

// ChatHandler handles the AI chat proxy.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatInput is the DTO for chat requests.
type ChatInput struct {
	Query string `json:"query" binding:"required"`
}

// Ask handles POST /api/v1/chat
func (h *ChatHandler) Ask(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	reply := h.chatService.Ask(c.Request.Context(), sess, input.Query)
	RespondOK(c, gin.H{"reply": reply})
}
