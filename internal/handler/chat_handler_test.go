package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shipdesk/internal/domain"
	"shipdesk/internal/service"
	"shipdesk/mocks"
)

func chatRouter(extractor *mocks.MockExtractor, sess domain.Session) *gin.Engine {
	h := NewChatHandler(service.NewChatService(extractor))
	r := gin.New()
	r.Use(withSession(sess))
	r.POST("/chat", h.Ask)
	return r
}

func TestChatHandler(t *testing.T) {
	sess := testSession(domain.RoleUser)
	extractor := new(mocks.MockExtractor)
	extractor.On("Chat", mock.Anything, "where is truck 12?", sess.Company).
		Return("Truck 12 is en route to Pune.", nil)

	r := chatRouter(extractor, sess)
	w := postJSON(t, r, "/chat", gin.H{"query": "where is truck 12?"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Truck 12 is en route to Pune.")
	extractor.AssertExpectations(t)
}

func TestChatHandlerMissingQuery(t *testing.T) {
	r := chatRouter(new(mocks.MockExtractor), testSession(domain.RoleUser))
	w := postJSON(t, r, "/chat", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandlerMissingSession(t *testing.T) {
	h := NewChatHandler(service.NewChatService(new(mocks.MockExtractor)))
	r := gin.New()
	r.POST("/chat", h.Ask)

	w := postJSON(t, r, "/chat", gin.H{"query": "hello"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
