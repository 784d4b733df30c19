package handler

import (
	"net/http"

	"anoa.com/mentormatch/internal/dto"
	"anoa.com/mentormatch/internal/service"
	"anoa.com/mentormatch/pkg/apperror"
	"anoa.com/mentormatch/pkg/response"
	"anoa.com/mentormatch/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MentorHandler struct {
	mentorService service.MentorService
}

func NewMentorHandler(mentorService service.MentorService) *MentorHandler {
	return &MentorHandler{
		mentorService: mentorService,
	}
}

func (h *MentorHandler) ListMentors(c *gin.Context) {
	var query dto.MentorQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, apperror.Validation(validator.FormatValidationError(err)))
		return
	}

	mentors, err := h.mentorService.List(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentors)
}
