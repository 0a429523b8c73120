package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shipdesk/internal/export"
	"shipdesk/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecordHandler handles the extracted record cache: listing, refresh,
// editing and export.
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// List handles GET /api/v1/records
func (h *RecordHandler) List(c *gin.Context) {
	listing, err := h.records.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, listing)
}

// Refresh handles POST /api/v1/records/refresh
func (h *RecordHandler) Refresh(c *gin.Context) {
	listing, err := h.records.Refresh(c.Request.Context(), false)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, listing)
}

// UpdateInput is the DTO for record edits: values keyed by display column
// name, e.g. {"Truck No": "MH12AB1234"}.
type UpdateInput map[string]string

// Update handles PUT /api/v1/records/:id
func (h *RecordHandler) Update(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "record id must be an integer")
		return
	}

	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if len(input) == 0 {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "no fields to update")
		return
	}

	listing, err := h.records.Update(c.Request.Context(), recordID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, listing)
}

// Export handles GET /api/v1/records/export
func (h *RecordHandler) Export(c *gin.Context) {
	listing, err := h.records.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("shipment_records")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)

	if err := export.WriteRecords(c.Writer, listing.Records); err != nil {
		// Headers are already out; all we can do is log.
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] record export failed: %v", requestID, err)
	}
}
