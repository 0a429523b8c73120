package service

import (
	"context"
	"log"
	"strings"

	"shipdesk/internal/domain"
	"shipdesk/internal/port"
)

// ChatService proxies natural-language questions to the extraction service,
// scoped to the asking user's company.
type ChatService interface {
	Ask(ctx context.Context, session domain.Session, query string) string
}

type chatService struct {
	extractor port.Extractor
}

// NewChatService creates a new ChatService implementation.
func NewChatService(extractor port.Extractor) ChatService {
	return &chatService{extractor: extractor}
}

// Ask forwards the question and always returns something readable: an empty
// upstream reply and a transport failure both degrade to a reply string.
func (s *chatService) Ask(ctx context.Context, session domain.Session, query string) string {
	reply, err := s.extractor.Chat(ctx, query, session.Company)
	if err != nil {
		log.Printf("chatService: chat failed for %s: %v", session.Email, err)
		return "Error contacting AI service. Please try again."
	}
	if strings.TrimSpace(reply) == "" {
		return "No response from AI."
	}
	return reply
}
