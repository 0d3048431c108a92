package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated user. Rows are upserted on login and
// referenced by every other entity through user_id.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;type:text"`
	Email           string    `json:"email,omitempty" gorm:"uniqueIndex;type:text"`
	FirstName       string    `json:"firstName,omitempty" gorm:"column:first_name;type:text"`
	LastName        string    `json:"lastName,omitempty" gorm:"column:last_name;type:text"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty" gorm:"column:profile_image_url;type:text"`
	CreatedAt       time.Time `json:"createdAt,omitempty" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
