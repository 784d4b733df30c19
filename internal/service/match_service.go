package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"anoa.com/mentormatch/internal/dto"
	"anoa.com/mentormatch/internal/model"
	"anoa.com/mentormatch/internal/repository"
	"anoa.com/mentormatch/pkg/apperror"
	"gorm.io/gorm"
)

// MatchService owns the match-request lifecycle. All transition
// legality is resolved through the model transition table; this layer
// adds ownership, uniqueness rules and persistence.
type MatchService interface {
	Create(ctx context.Context, menteeID uint, input dto.CreateMatchRequest) (*dto.MatchRequestInfo, error)
	Resolve(ctx context.Context, actorID, requestID uint, action model.MatchAction) (*dto.MatchRequestInfo, error)
	ListIncoming(ctx context.Context, mentorID uint) ([]dto.MatchRequestInfo, error)
	ListOutgoing(ctx context.Context, menteeID uint) ([]dto.MatchRequestInfo, error)
}

type matchService struct {
	matchRepo     repository.MatchRequestRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	limiter       *RateLimiter
}

func NewMatchService(matchRepo repository.MatchRequestRepository, userRepo repository.UserRepository, notifications NotificationService, limiter *RateLimiter) MatchService {
	return &matchService{
		matchRepo:     matchRepo,
		userRepo:      userRepo,
		notifications: notifications,
		limiter:       limiter,
	}
}

func (s *matchService) Create(ctx context.Context, menteeID uint, input dto.CreateMatchRequest) (*dto.MatchRequestInfo, error) {
	mentee, err := s.userRepo.FindByID(ctx, menteeID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if mentee.Role != model.RoleMentee {
		return nil, apperror.Forbidden("Only mentees can send match requests")
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, apperror.Validation("Message must not be empty")
	}

	if _, err := s.userRepo.FindMentorByID(ctx, input.MentorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validation("Mentor not found")
		}
		return nil, err
	}

	pending, err := s.matchRepo.HasPendingByMentee(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperror.Conflict("You already have a pending request")
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, menteeID, "match_request")
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, apperror.New(http.StatusTooManyRequests, "You are sending requests too quickly", apperror.ErrRateLimited)
		}
	}

	request := &model.MatchRequest{
		MentorID: input.MentorID,
		MenteeID: menteeID,
		Message:  message,
		Status:   model.MatchPending,
	}

	if err := s.matchRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.notify(ctx, request.MentorID, model.NotificationRequestReceived, request,
		fmt.Sprintf("%s sent you a match request", mentee.Name))

	info := buildMatchInfo(request)
	return &info, nil
}

func (s *matchService) Resolve(ctx context.Context, actorID, requestID uint, action model.MatchAction) (*dto.MatchRequestInfo, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	request, err := s.matchRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Match request not found")
		}
		return nil, err
	}

	next, err := model.NextStatus(actor.Role, request.Status, action)
	if err != nil {
		return nil, err
	}

	if ownerID(request, action) != actorID {
		return nil, apperror.Forbidden("You are not a party to this match request")
	}

	// A mentor mentors one mentee at a time.
	if action == model.ActionAccept {
		accepted, err := s.matchRepo.HasAcceptedByMentor(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if accepted {
			return nil, apperror.Conflict("You already have an accepted mentee")
		}
	}

	moved, err := s.matchRepo.UpdateStatus(ctx, request.ID, request.Status, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Lost the race: someone resolved the request in between.
		return nil, apperror.Conflict("Match request was already resolved")
	}
	request.Status = next

	s.notifyResolution(ctx, request, action)

	info := buildMatchInfo(request)
	return &info, nil
}

func (s *matchService) ListIncoming(ctx context.Context, mentorID uint) ([]dto.MatchRequestInfo, error) {
	requests, err := s.matchRepo.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	return buildMatchInfos(requests), nil
}

func (s *matchService) ListOutgoing(ctx context.Context, menteeID uint) ([]dto.MatchRequestInfo, error) {
	requests, err := s.matchRepo.ListByMentee(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	return buildMatchInfos(requests), nil
}

// ownerID returns which user must perform the action on this request.
func ownerID(request *model.MatchRequest, action model.MatchAction) uint {
	if model.PartyFor(action) == model.RoleMentor {
		return request.MentorID
	}
	return request.MenteeID
}

func (s *matchService) notifyResolution(ctx context.Context, request *model.MatchRequest, action model.MatchAction) {
	switch action {
	case model.ActionAccept:
		s.notify(ctx, request.MenteeID, model.NotificationRequestAccepted, request, "Your match request was accepted")
	case model.ActionReject:
		s.notify(ctx, request.MenteeID, model.NotificationRequestRejected, request, "Your match request was rejected")
	case model.ActionCancel:
		s.notify(ctx, request.MentorID, model.NotificationRequestCancelled, request, "A match request to you was cancelled")
	}
}

func (s *matchService) notify(ctx context.Context, userID uint, kind model.NotificationType, request *model.MatchRequest, message string) {
	if s.notifications == nil {
		return
	}

	notification := &model.Notification{
		UserID:         userID,
		Type:           kind,
		Message:        message,
		MatchRequestID: request.ID,
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		log.Printf("failed to create notification for user %d: %v", userID, err)
	}
}

func buildMatchInfo(request *model.MatchRequest) dto.MatchRequestInfo {
	return dto.MatchRequestInfo{
		ID:       request.ID,
		MentorID: request.MentorID,
		MenteeID: request.MenteeID,
		Message:  request.Message,
		Status:   string(request.Status),
	}
}

func buildMatchInfos(requests []*model.MatchRequest) []dto.MatchRequestInfo {
	infos := make([]dto.MatchRequestInfo, 0, len(requests))
	for _, request := range requests {
		infos = append(infos, buildMatchInfo(request))
	}
	return infos
}
