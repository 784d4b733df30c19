package handler

import (
	"net/http"
	"strconv"

	"anoa.com/mentormatch/internal/dto"
	"anoa.com/mentormatch/internal/model"
	"anoa.com/mentormatch/internal/service"
	"anoa.com/mentormatch/pkg/apperror"
	"anoa.com/mentormatch/pkg/response"
	"anoa.com/mentormatch/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	info, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, apperror.Validation(validator.FormatValidationError(err)))
		return
	}

	info, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// ProfileImage redirects to the user's stored profile image, or to a
// role-specific placeholder when none was uploaded.
func (h *ProfileHandler) ProfileImage(c *gin.Context) {
	role := model.Role(c.Param("role"))
	if !role.Valid() {
		response.ResponseError(c, apperror.Validation("unknown role"))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ResponseError(c, apperror.Validation("invalid user id"))
		return
	}

	location, err := h.profileService.ImageLocation(c.Request.Context(), role, uint(id))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, location)
}
