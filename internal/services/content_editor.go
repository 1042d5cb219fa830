package services

import (
	"strings"
	"unicode/utf8"

	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/security"
	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/persian"
)

// Editor chains applied to stored text.
var (
	FullChain       = []string{"space", "number", "arabic", "punctuation_marks"}
	ReportBodyChain = []string{"space"}
)

const maxTagNameLength = 20

// ContentEditor cleans visitor and staff text before it is stored.
// Its pipelines are read-only after construction and safe to share.
type ContentEditor struct {
	page        *persian.Pipeline
	reportBody  *persian.Pipeline
	description *persian.Pipeline
	tag         *persian.Pipeline
}

func NewContentEditor() *ContentEditor {
	return &ContentEditor{
		page:        persian.MustNew(FullChain),
		reportBody:  persian.MustNew(ReportBodyChain, persian.WithEscapeReturn(false)),
		description: persian.MustNew(FullChain),
		tag:         persian.MustNew([]string{"space", "arabic"}),
	}
}

// EditPage strips markup from every text field and runs the page chain
// over the displayed ones.
func (e *ContentEditor) EditPage(p *models.Page) {
	p.Title = e.page.Run(security.SanitizeText(p.Title, 0))
	p.Subtitle = e.page.Run(security.SanitizeText(p.Subtitle, 0))
	p.Content = e.page.Run(security.SanitizeText(p.Content, 0))
	p.Event = e.page.Run(security.SanitizeText(p.Event, 0))
	p.ImageCaption = e.page.Run(security.SanitizeText(p.ImageCaption, 0))
	p.Reference = strings.TrimSpace(security.SanitizeText(p.Reference, 0))
	p.Website = strings.TrimSpace(security.SanitizeText(p.Website, 0))
}

// EditReportBody keeps the reporter's line breaks.
func (e *ContentEditor) EditReportBody(body string) string {
	return e.reportBody.Run(security.SanitizeText(body, 0))
}

func (e *ContentEditor) EditDescription(description string) string {
	return e.description.Run(security.SanitizeText(description, 0))
}

// EditTags cleans tag names and drops blanks and duplicates.
func (e *ContentEditor) EditTags(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		name = e.tag.Run(security.SanitizeText(name, 0))
		if name == "" || seen[name] {
			continue
		}
		if utf8.RuneCountInString(name) > maxTagNameLength {
			return nil, errors.Newf(errors.ErrCodeValidation, "نام برچسب حداکثر %d نویسه است: %s", maxTagNameLength, name)
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// PreviewOptions selects the general-pass flags of a preview run.
type PreviewOptions struct {
	Strip        bool
	EscapeReturn bool
}

// Preview runs an arbitrary editor chain over text without storing it.
// A nil text is an INVALID_INPUT error.
func Preview(names []string, text *string, opts PreviewOptions) (string, error) {
	pipeline, err := persian.New(names,
		persian.WithStrip(opts.Strip),
		persian.WithEscapeReturn(opts.EscapeReturn),
	)
	if err != nil {
		return "", err
	}

	session := pipeline.NewSession()
	return session.Run(text)
}
