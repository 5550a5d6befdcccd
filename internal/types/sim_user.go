package types

import (
	"time"

	"github.com/google/uuid"
)

// SimUser is a simulated platform account. Credentials are real bcrypt
// hashes so the pool can be pointed at an actual LMS login flow.
type SimUser struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username     string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"column:email;not null" json:"email"`
	DisplayName  string    `gorm:"column:display_name;not null" json:"display_name"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SimUser) TableName() string { return "sim_user" }
