package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is a staff account of the admin panel. Visitors are anonymous.
type User struct {
	ID           uint       `gorm:"primaryKey"`
	Email        string     `gorm:"uniqueIndex;type:varchar(254);not null"`
	PasswordHash string     `gorm:"type:varchar(100);not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(150)"`
	LastName     string     `gorm:"type:varchar(150)"`
	IsStaff      bool       `gorm:"default:false;not null"`
	IsSuperuser  bool       `gorm:"default:false;not null"`
	IsActive     bool       `gorm:"default:true;not null"`
	LastLogin    *time.Time `gorm:"default:NULL"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

// FullName returns "first last", or the email when no name is set.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// CanModerate reports whether the user may use the admin API.
func (u *User) CanModerate() bool {
	return u.IsActive && (u.IsStaff || u.IsSuperuser)
}

// BeforeSave hook for validation and normalization
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" || u.PasswordHash == "" {
		return gorm.ErrInvalidData
	}
	if u.IsSuperuser && !u.IsStaff {
		return gorm.ErrInvalidData
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
