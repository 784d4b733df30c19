package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"anoa.com/mentormatch/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// SearchService keeps the mentor directory index in Meilisearch.
// The database stays the source of truth; the index only contributes
// relevance ranking for skill searches.
type SearchService interface {
	IndexMentor(mentor *model.User) error
	RemoveMentor(id uint) error
	SearchMentorIDs(query string) ([]uint, error)
}

type mentorDocument struct {
	ID     uint     `json:"id"`
	Name   string   `json:"name"`
	Bio    string   `json:"bio"`
	Skills []string `json:"skills"`
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	searchableAttrs := []string{"skills", "name", "bio"}
	if _, err := s.client.Index("mentors").UpdateSearchableAttributes(&searchableAttrs); err != nil {
		log.Printf("Failed to update mentors searchable attributes: %v", err)
	}

	sortableAttrs := []string{"name"}
	if _, err := s.client.Index("mentors").UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update mentors sortable attributes: %v", err)
	}
}

func (s *searchService) IndexMentor(mentor *model.User) error {
	if mentor.Role != model.RoleMentor {
		return nil
	}

	bio := ""
	if mentor.Bio != nil {
		bio = s.sanitizer.Sanitize(*mentor.Bio)
	}

	doc := mentorDocument{
		ID:     mentor.ID,
		Name:   mentor.Name,
		Bio:    bio,
		Skills: mentor.Skills,
	}

	if _, err := s.client.Index("mentors").AddDocuments([]mentorDocument{doc}, strPtr("id")); err != nil {
		return fmt.Errorf("failed to index mentor %d: %w", mentor.ID, err)
	}

	return nil
}

func (s *searchService) RemoveMentor(id uint) error {
	if _, err := s.client.Index("mentors").DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
		return fmt.Errorf("failed to remove mentor %d from index: %w", id, err)
	}

	return nil
}

// SearchMentorIDs returns mentor ids ranked by relevance for the query.
func (s *searchService) SearchMentorIDs(query string) ([]uint, error) {
	res, err := s.client.Index("mentors").Search(query, &meilisearch.SearchRequest{
		Limit: 100,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc mentorDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}

	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
