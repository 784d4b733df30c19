package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"anoa.com/mentormatch/internal/dto"
	"anoa.com/mentormatch/internal/model"
	"anoa.com/mentormatch/internal/repository"
	"anoa.com/mentormatch/pkg/apperror"
	"anoa.com/mentormatch/pkg/storage"
	"gorm.io/gorm"
)

const (
	defaultMentorImageURL = "https://placehold.co/500x500.jpg?text=MENTOR"
	defaultMenteeImageURL = "https://placehold.co/500x500.jpg?text=MENTEE"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uint) (*dto.UserInfo, error)
	UpdateProfile(ctx context.Context, userID uint, input dto.ProfileUpdateRequest) (*dto.UserInfo, error)
	// ImageLocation resolves the redirect target for a user's profile
	// image: the stored URL, or a role-specific placeholder.
	ImageLocation(ctx context.Context, role model.Role, userID uint) (string, error)
}

type profileService struct {
	repo         repository.UserRepository
	imageStorage storage.ImageStorage
	search       SearchService
}

func NewProfileService(repo repository.UserRepository, imageStorage storage.ImageStorage, search SearchService) ProfileService {
	return &profileService{
		repo:         repo,
		imageStorage: imageStorage,
		search:       search,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uint) (*dto.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}

	info := BuildUserInfo(user)
	return &info, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uint, input dto.ProfileUpdateRequest) (*dto.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("Name is required")
	}
	user.Name = name
	user.Bio = normalizeOptional(input.Bio)

	if input.Image != "" {
		data, format, err := DecodeProfileImage(input.Image)
		if err != nil {
			return nil, err
		}

		if s.imageStorage != nil {
			fileName := fmt.Sprintf("user-%d.%s", user.ID, format)
			url, err := s.imageStorage.UploadImage(ctx, bytes.NewReader(data), "profiles", fileName)
			if err != nil {
				return nil, err
			}

			if user.ImageURL != nil && *user.ImageURL != "" && *user.ImageURL != url {
				if err := s.imageStorage.DeleteImage(ctx, *user.ImageURL); err != nil {
					log.Printf("failed to delete previous profile image for user %d: %v", user.ID, err)
				}
			}
			user.ImageURL = &url
		}
	}

	// Skills only mean something for mentors; anyone else may send
	// them but they are not persisted.
	if user.Role == model.RoleMentor && input.Skills != nil {
		user.Skills = model.SkillList(input.Skills)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.search != nil && user.Role == model.RoleMentor {
		if err := s.search.IndexMentor(user); err != nil {
			log.Printf("failed to reindex mentor %d: %v", user.ID, err)
		}
	}

	info := BuildUserInfo(user)
	return &info, nil
}

func (s *profileService) ImageLocation(ctx context.Context, role model.Role, userID uint) (string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.NotFound("User not found")
		}
		return "", err
	}

	if user.ImageURL != nil && *user.ImageURL != "" {
		return *user.ImageURL, nil
	}

	return defaultImageURL(role), nil
}

// BuildUserInfo shapes a user entity into the wire representation the
// frontend consumes. Mentees never expose a skill list.
func BuildUserInfo(user *model.User) dto.UserInfo {
	imageURL := defaultImageURL(user.Role)
	if user.ImageURL != nil && *user.ImageURL != "" {
		imageURL = fmt.Sprintf("/api/images/%s/%d", user.Role, user.ID)
	}

	var skills []string
	if user.Role == model.RoleMentor {
		skills = user.Skills
		if skills == nil {
			skills = []string{}
		}
	}

	return dto.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
		Profile: dto.ProfileInfo{
			Name:     user.Name,
			Bio:      user.Bio,
			ImageURL: imageURL,
			Skills:   skills,
		},
	}
}

func defaultImageURL(role model.Role) string {
	if role == model.RoleMentor {
		return defaultMentorImageURL
	}
	return defaultMenteeImageURL
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
