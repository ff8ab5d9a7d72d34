package models

import (
	"time"

	"gorm.io/gorm"
)

const RoleAdmin = "ADMIN"

// User is a back-office account. The studio has a single admin seeded from
// the environment; visitors never get an account.
type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"default:''"`
	Email               string     `json:"email" gorm:"unique;not null"`
	Role                string     `json:"role" gorm:"default:'ADMIN'"`
	Password            string     `json:"-" gorm:"not null"`
	LastLogin           *time.Time `json:"lastLogin"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
}
