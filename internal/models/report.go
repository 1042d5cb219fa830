package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

const (
	MaxReportBodyLength        = 1024
	MaxReportDescriptionLength = 1024
	MinReportBodyLength        = 3
)

// Report status constants
const (
	ReportStatusPending  = "pending"
	ReportStatusAccepted = "accepted"
	ReportStatusDenied   = "denied"
)

type Report struct {
	ID          uint      `gorm:"primaryKey"`
	PageID      uint      `gorm:"not null;index"`
	Page        Page      `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE"`
	RID         *string   `gorm:"uniqueIndex;type:varchar(32)"`
	Language    string    `gorm:"type:varchar(7);not null;index"`
	Body        string    `gorm:"type:text;not null"`
	Reporter    string    `gorm:"type:varchar(254);not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(32);default:'pending';not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Report) TableName() string {
	return "reports"
}

// IsPending reports whether staff can still change status and description.
func (r *Report) IsPending() bool {
	return r.Status == ReportStatusPending
}

// IsValidReportStatus reports whether status is a known report status.
func IsValidReportStatus(status string) bool {
	switch status {
	case ReportStatusPending, ReportStatusAccepted, ReportStatusDenied:
		return true
	}
	return false
}

// ReportRID derives a report reference ID from its page's PID by swapping
// the PID prefix: P_a1b2c3d4 + 17 -> R_a1b2c3d4_17.
func ReportRID(prefix, pid string, id uint) string {
	suffix := pid
	if i := strings.Index(pid, "_"); i >= 0 {
		suffix = pid[i+1:]
	}
	return fmt.Sprintf("%s_%s_%d", prefix, suffix, id)
}

// Validate checks the visitor-supplied fields.
func (r *Report) Validate() error {
	if n := utf8.RuneCountInString(r.Body); n < MinReportBodyLength || n > MaxReportBodyLength {
		return fmt.Errorf("body must be %d to %d characters", MinReportBodyLength, MaxReportBodyLength)
	}
	if utf8.RuneCountInString(r.Description) > MaxReportDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", MaxReportDescriptionLength)
	}
	if _, err := mail.ParseAddress(r.Reporter); err != nil {
		return fmt.Errorf("reporter must be a valid email address")
	}
	return nil
}

// BeforeSave hook for validation
func (r *Report) BeforeSave(tx *gorm.DB) error {
	if !IsValidReportStatus(r.Status) {
		return gorm.ErrInvalidData
	}
	if err := r.Validate(); err != nil {
		return gorm.ErrInvalidData
	}
	return nil
}
