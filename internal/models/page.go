package models

import (
	"fmt"
	"net/mail"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// Field limits shared by the HTTP layer, the importer and the hooks.
const (
	MaxTitleLength        = 128
	MaxSubtitleLength     = 128
	MaxContentLength      = 1024
	MaxEventLength        = 128
	MaxImageCaptionLength = 128
	MaxReferenceLength    = 128
	MinTitleLength        = 3
)

// Group ties translations of the same subject together.
type Group struct {
	GID       string    `gorm:"primaryKey;type:varchar(16)"`
	Pages     []Page    `gorm:"foreignKey:GroupID;references:GID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Group) TableName() string {
	return "groups"
}

type Page struct {
	ID           uint      `gorm:"primaryKey"`
	PID          string    `gorm:"uniqueIndex;type:varchar(16);not null"`
	Language     string    `gorm:"type:varchar(7);not null;index;uniqueIndex:idx_page_group_language"`
	GroupID      *string   `gorm:"type:varchar(16);uniqueIndex:idx_page_group_language"`
	Title        string    `gorm:"type:varchar(128);not null;index"`
	Subtitle     string    `gorm:"type:varchar(128)"`
	Content      string    `gorm:"type:text;not null"`
	Event        string    `gorm:"type:varchar(128)"`
	Image        string    `gorm:"type:varchar(500)"`
	ImageCaption string    `gorm:"type:varchar(128)"`
	Reference    string    `gorm:"type:varchar(128)"`
	Website      string    `gorm:"type:varchar(200)"`
	Author       string    `gorm:"type:varchar(254)"`
	IsActive     bool      `gorm:"default:false;not null;index"`
	Tags         []Tag     `gorm:"many2many:page_tags"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Rank float64 `gorm:"->;-:migration" json:"rank,omitempty"` // search results only
}

func (Page) TableName() string {
	return "pages"
}

// Validate checks required fields and length limits.
func (p *Page) Validate() error {
	if n := utf8.RuneCountInString(p.Title); n < MinTitleLength || n > MaxTitleLength {
		return fmt.Errorf("title must be %d to %d characters", MinTitleLength, MaxTitleLength)
	}
	if p.Content == "" {
		return fmt.Errorf("content is required")
	}

	limits := []struct {
		field string
		value string
		max   int
	}{
		{"subtitle", p.Subtitle, MaxSubtitleLength},
		{"content", p.Content, MaxContentLength},
		{"event", p.Event, MaxEventLength},
		{"image_caption", p.ImageCaption, MaxImageCaptionLength},
		{"reference", p.Reference, MaxReferenceLength},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return fmt.Errorf("%s must be at most %d characters", l.field, l.max)
		}
	}

	if p.Author != "" {
		if _, err := mail.ParseAddress(p.Author); err != nil {
			return fmt.Errorf("author must be a valid email address")
		}
	}
	return nil
}

// BeforeSave hook for validation
func (p *Page) BeforeSave(tx *gorm.DB) error {
	if p.PID == "" || p.Language == "" {
		return gorm.ErrInvalidData
	}
	if err := p.Validate(); err != nil {
		return gorm.ErrInvalidData
	}
	return nil
}
