package service

import (
	"context"
	"log"
	"strings"

	"shipdesk/internal/domain"
	"shipdesk/internal/port"
)

// SearchService proxies semantic search to the extraction service.
type SearchService interface {
	Search(ctx context.Context, query string) *domain.SearchResult
}

type searchService struct {
	extractor port.Extractor
}

// NewSearchService creates a new SearchService implementation.
func NewSearchService(extractor port.Extractor) SearchService {
	return &searchService{extractor: extractor}
}

// Search strips surrounding quotes from the query and forwards it. Failures
// degrade to an empty "error" result; search never fails a request.
func (s *searchService) Search(ctx context.Context, query string) *domain.SearchResult {
	query = stripQuotes(strings.TrimSpace(query))

	result, err := s.extractor.Search(ctx, query)
	if err != nil {
		log.Printf("searchService: search failed for %q: %v", query, err)
		return &domain.SearchResult{
			Mode:    domain.SearchModeError,
			Count:   0,
			Results: []domain.ShipmentRecord{},
		}
	}
	if result.Results == nil {
		result.Results = []domain.ShipmentRecord{}
	}
	return result
}

// stripQuotes removes one matching pair of surrounding quotes, as pasted
// queries often carry them.
func stripQuotes(q string) string {
	if len(q) >= 2 {
		first, last := q[0], q[len(q)-1]
		if first == last && (first == '"' || first == '\'') {
			return q[1 : len(q)-1]
		}
	}
	return q
}
