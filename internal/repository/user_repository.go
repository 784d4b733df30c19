package repository

import (
	"context"
	"fmt"

	"anoa.com/mentormatch/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindMentorByID(ctx context.Context, id uint) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	FindMentors(ctx context.Context, skill, orderBy string) ([]*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindMentorByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, model.RoleMentor).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindMentors lists mentor users, optionally filtered by a skill and
// ordered by one of the recognized keys. The skill filter matches the
// serialized skill list case-insensitively; unrecognized order keys
// fall back to id order.
func (r *userRepository) FindMentors(ctx context.Context, skill, orderBy string) ([]*model.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", model.RoleMentor)

	if skill != "" {
		query = query.Where("skills ILIKE ?", fmt.Sprintf(`%%"%s"%%`, skill))
	}

	switch orderBy {
	case "name":
		query = query.Order("name")
	case "skill":
		query = query.Order("skills")
	default:
		query = query.Order("id")
	}

	var mentors []*model.User
	if err := query.Find(&mentors).Error; err != nil {
		return nil, err
	}

	return mentors, nil
}
