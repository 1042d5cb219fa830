package handlers

import (
	"time"

	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/services"
	"github.com/mrouhi13/laum/pkg/utils"
)

type pageView struct {
	PID          string            `json:"pid"`
	Language     string            `json:"language"`
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle,omitempty"`
	Event        string            `json:"event,omitempty"`
	Content      string            `json:"content,omitempty"`
	Image        string            `json:"image,omitempty"`
	ImageCaption string            `json:"image_caption,omitempty"`
	Reference    string            `json:"reference,omitempty"`
	Website      string            `json:"website,omitempty"`
	Tags         []string          `json:"tags"`
	Rank         float64           `json:"rank,omitempty"`
	Translations []translationView `json:"translations,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// staff only
	Author   string `json:"author,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type translationView struct {
	PID      string `json:"pid"`
	Language string `json:"language"`
	Title    string `json:"title"`
}

func newPageView(p *models.Page) pageView {
	v := pageView{
		PID:          p.PID,
		Language:     p.Language,
		Title:        p.Title,
		Subtitle:     p.Subtitle,
		Event:        p.Event,
		Content:      p.Content,
		Image:        p.Image,
		ImageCaption: p.ImageCaption,
		Reference:    p.Reference,
		Website:      p.Website,
		Tags:         make([]string, 0, len(p.Tags)),
		Rank:         p.Rank,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, t := range p.Tags {
		v.Tags = append(v.Tags, t.Name)
	}
	return v
}

func newStaffPageView(p *models.Page) pageView {
	v := newPageView(p)
	active := p.IsActive
	v.Author = p.Author
	v.IsActive = &active
	return v
}

func newDetailView(d *services.PageDetail) pageView {
	v := newPageView(d.Page)
	for _, t := range d.Translations {
		v.Translations = append(v.Translations, translationView{PID: t.PID, Language: t.Language, Title: t.Title})
	}
	return v
}

type pageListView struct {
	Pages      []pageView          `json:"pages"`
	Pagination services.Pagination `json:"pagination"`
}

func newPageListView(list *services.PageList, view func(*models.Page) pageView) pageListView {
	out := pageListView{Pages: make([]pageView, 0, len(list.Pages)), Pagination: list.Pagination}
	for i := range list.Pages {
		out.Pages = append(out.Pages, view(&list.Pages[i]))
	}
	return out
}

type reportView struct {
	RID         string    `json:"rid"`
	PID         string    `json:"pid"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// staff only
	ID       uint   `json:"id,omitempty"`
	Body     string `json:"body,omitempty"`
	Reporter string `json:"reporter,omitempty"`
}

func newReportView(r *models.Report) reportView {
	v := reportView{
		PID:         r.Page.PID,
		Status:      r.Status,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.RID != nil {
		v.RID = *r.RID
	}
	return v
}

func newStaffReportView(r *models.Report) reportView {
	v := newReportView(r)
	v.ID = r.ID
	v.Body = r.Body
	v.Reporter = r.Reporter
	return v
}

type reportListView struct {
	Reports    []reportView        `json:"reports"`
	Pagination services.Pagination `json:"pagination"`
}

// submittedView acknowledges a visitor submission with a reference ID in
// Persian digits for display.
type submittedView struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

func newSubmittedView(id string) submittedView {
	return submittedView{ID: id, Display: utils.ToPersianDigits(id)}
}
