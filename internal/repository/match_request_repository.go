package repository

import (
	"context"

	"anoa.com/mentormatch/internal/model"
	"gorm.io/gorm"
)

type MatchRequestRepository interface {
	Create(ctx context.Context, request *model.MatchRequest) error
	FindByID(ctx context.Context, id uint) (*model.MatchRequest, error)
	ListByMentor(ctx context.Context, mentorID uint) ([]*model.MatchRequest, error)
	ListByMentee(ctx context.Context, menteeID uint) ([]*model.MatchRequest, error)
	// UpdateStatus moves a request from one status to another and
	// reports whether the row was actually in the expected source
	// status. The conditional WHERE makes the database the arbiter
	// under concurrent resolutions.
	UpdateStatus(ctx context.Context, id uint, from, to model.MatchStatus) (bool, error)
	HasPendingByMentee(ctx context.Context, menteeID uint) (bool, error)
	HasAcceptedByMentor(ctx context.Context, mentorID uint) (bool, error)
}

type matchRequestRepository struct {
	db *gorm.DB
}

func NewMatchRequestRepository(db *gorm.DB) MatchRequestRepository {
	return &matchRequestRepository{db: db}
}

func (r *matchRequestRepository) Create(ctx context.Context, request *model.MatchRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *matchRequestRepository) FindByID(ctx context.Context, id uint) (*model.MatchRequest, error) {
	var request model.MatchRequest
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *matchRequestRepository) ListByMentor(ctx context.Context, mentorID uint) ([]*model.MatchRequest, error) {
	var requests []*model.MatchRequest
	if err := r.db.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Order("id").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *matchRequestRepository) ListByMentee(ctx context.Context, menteeID uint) ([]*model.MatchRequest, error) {
	var requests []*model.MatchRequest
	if err := r.db.WithContext(ctx).
		Where("mentee_id = ?", menteeID).
		Order("id").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *matchRequestRepository) UpdateStatus(ctx context.Context, id uint, from, to model.MatchStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.MatchRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *matchRequestRepository) HasPendingByMentee(ctx context.Context, menteeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.MatchRequest{}).
		Where("mentee_id = ? AND status = ?", menteeID, model.MatchPending).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *matchRequestRepository) HasAcceptedByMentor(ctx context.Context, mentorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.MatchRequest{}).
		Where("mentor_id = ? AND status = ?", mentorID, model.MatchAccepted).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
