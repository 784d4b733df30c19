package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

func (r Role) Valid() bool {
	return r == RoleMentor || r == RoleMentee
}

// SkillList is stored as a JSON array in a text column.
type SkillList []string

func (s SkillList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SkillList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for SkillList: %T", value)
	}
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null" json:"role"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Bio          *string   `gorm:"type:text" json:"bio,omitempty"`
	ImageURL     *string   `gorm:"type:text" json:"image_url,omitempty"`
	Skills       SkillList `gorm:"type:text" json:"skills,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasSkill reports whether the user's skill list contains the given
// skill, compared case-insensitively.
func (u *User) HasSkill(skill string) bool {
	for _, s := range u.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}
