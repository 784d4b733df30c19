package service

import (
	"context"
	"log"
	"sort"

	"anoa.com/mentormatch/internal/dto"
	"anoa.com/mentormatch/internal/model"
	"anoa.com/mentormatch/internal/repository"
)

// MentorService answers directory queries for the mentee-facing mentor
// browser. The database query is authoritative; when Meilisearch is
// configured it only contributes relevance ordering for skill searches
// without an explicit order key.
type MentorService interface {
	List(ctx context.Context, query dto.MentorQuery) ([]dto.UserInfo, error)
}

type mentorService struct {
	repo   repository.UserRepository
	search SearchService
}

func NewMentorService(repo repository.UserRepository, search SearchService) MentorService {
	return &mentorService{
		repo:   repo,
		search: search,
	}
}

func (s *mentorService) List(ctx context.Context, query dto.MentorQuery) ([]dto.UserInfo, error) {
	orderBy := normalizeOrderKey(query.OrderBy)

	mentors, err := s.repo.FindMentors(ctx, query.Skill, orderBy)
	if err != nil {
		return nil, err
	}

	if s.search != nil && query.Skill != "" && orderBy == "" {
		if ranked, err := s.search.SearchMentorIDs(query.Skill); err == nil {
			mentors = rankMentors(mentors, ranked)
		} else {
			log.Printf("mentor search ranking unavailable: %v", err)
		}
	}

	infos := make([]dto.UserInfo, 0, len(mentors))
	for _, mentor := range mentors {
		infos = append(infos, BuildUserInfo(mentor))
	}

	return infos, nil
}

// normalizeOrderKey keeps only the recognized order keys; anything
// else means "no ordering override", never an error.
func normalizeOrderKey(orderBy string) string {
	switch orderBy {
	case "name", "skill":
		return orderBy
	default:
		return ""
	}
}

// rankMentors reorders the result set so that ids appearing in ranked
// come first, in ranked order. Mentors unknown to the index keep their
// relative database order behind them.
func rankMentors(mentors []*model.User, ranked []uint) []*model.User {
	if len(ranked) == 0 {
		return mentors
	}

	position := make(map[uint]int, len(ranked))
	for i, id := range ranked {
		position[id] = i
	}

	sorted := make([]*model.User, len(mentors))
	copy(sorted, mentors)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, iOK := position[sorted[i].ID]
		pj, jOK := position[sorted[j].ID]
		if iOK && jOK {
			return pi < pj
		}
		return iOK && !jOK
	})

	return sorted
}
