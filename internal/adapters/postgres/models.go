package postgres

import "time"

type userModel struct {
	Email             string    `gorm:"column:email;primaryKey"`
	PasswordHash      string    `gorm:"column:password_hash"`
	RequiresTwoFactor bool      `gorm:"column:requires_two_factor"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }
