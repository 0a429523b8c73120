package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipdesk/internal/service"
)

// SearchHandler handles the semantic search proxy.
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /api/v1/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "q query parameter is required")
		return
	}

	result := h.searchService.Search(c.Request.Context(), query)
	RespondOK(c, result)
}
