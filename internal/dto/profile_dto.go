package dto

type ProfileInfo struct {
	Name     string   `json:"name"`
	Bio      *string  `json:"bio,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

type UserInfo struct {
	ID      uint        `json:"id"`
	Email   string      `json:"email"`
	Role    string      `json:"role"`
	Profile ProfileInfo `json:"profile"`
}

type ProfileUpdateRequest struct {
	Name   string   `json:"name" binding:"required"`
	Bio    *string  `json:"bio"`
	Image  string   `json:"image"` // base64 encoded payload
	Skills []string `json:"skills"`
}
