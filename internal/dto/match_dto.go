package dto

type CreateMatchRequest struct {
	MentorID uint   `json:"mentorId" binding:"required"`
	MenteeID uint   `json:"menteeId"`
	Message  string `json:"message"`
}

type MatchRequestInfo struct {
	ID       uint   `json:"id"`
	MentorID uint   `json:"mentorId"`
	MenteeID uint   `json:"menteeId"`
	Message  string `json:"message,omitempty"`
	Status   string `json:"status"`
}

type MentorQuery struct {
	Skill   string `form:"skill"`
	OrderBy string `form:"order_by"`
}
