package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shipdesk/internal/domain"
	"shipdesk/internal/service"
	"shipdesk/mocks"
)

func searchRouter(extractor *mocks.MockExtractor) *gin.Engine {
	h := NewSearchHandler(service.NewSearchService(extractor))
	r := gin.New()
	r.GET("/search", h.Search)
	return r
}

func TestSearchHandler(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	extractor.On("Search", mock.Anything, "truck MH12").Return(&domain.SearchResult{
		Mode:    domain.SearchModeVector,
		Count:   1,
		Results: []domain.ShipmentRecord{{ID: 1}},
	}, nil)

	r := searchRouter(extractor)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=truck+MH12", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"vector"`)
}

func TestSearchHandlerMissingQuery(t *testing.T) {
	r := searchRouter(new(mocks.MockExtractor))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandlerDegradesOnFailure(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	extractor.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	r := searchRouter(extractor)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=anything", nil))

	// Search never fails the request; it reports an empty error-mode result.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"error"`)
	assert.Contains(t, w.Body.String(), `"count":0`)
}
