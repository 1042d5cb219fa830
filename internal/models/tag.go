package models

import (
	"strings"
	"time"
	"unicode"
)

type Tag struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Keyword   string    `gorm:"type:varchar(50);index;not null"`
	Language  string    `gorm:"type:varchar(7);not null;index"`
	IsActive  bool      `gorm:"default:true;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Tag) TableName() string {
	return "tags"
}

// TagKeyword builds a unicode slug from a tag name:
// "ادبیات فارسی" -> "ادبیات-فارسی".
func TagKeyword(name string) string {
	var b strings.Builder
	dash := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			b.WriteRune(r)
			dash = false
		case r == '\u200c':
			// zero-width non-joiner is part of Persian words
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !dash && b.Len() > 0 {
				b.WriteRune('-')
				dash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
