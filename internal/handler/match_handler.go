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

type MatchHandler struct {
	matchService service.MatchService
}

func NewMatchHandler(matchService service.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

func (h *MatchHandler) CreateRequest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreateMatchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, apperror.Validation(validator.FormatValidationError(err)))
		return
	}

	// The mentee party is always the caller, whatever the body says.
	input.MenteeID = userID

	info, err := h.matchService.Create(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *MatchHandler) Incoming(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.matchService.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *MatchHandler) Outgoing(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.matchService.ListOutgoing(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *MatchHandler) Accept(c *gin.Context) {
	h.resolve(c, model.ActionAccept)
}

func (h *MatchHandler) Reject(c *gin.Context) {
	h.resolve(c, model.ActionReject)
}

func (h *MatchHandler) Cancel(c *gin.Context) {
	h.resolve(c, model.ActionCancel)
}

func (h *MatchHandler) resolve(c *gin.Context, action model.MatchAction) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ResponseError(c, apperror.Validation("invalid match request id"))
		return
	}

	info, err := h.matchService.Resolve(c.Request.Context(), userID, uint(requestID), action)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
