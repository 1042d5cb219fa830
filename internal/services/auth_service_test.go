package services

import (
	"context"
	"testing"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/security"
	"github.com/mrouhi13/laum/pkg/errors"
)

func TestAuthService_Login(t *testing.T) {
	users := newFakeUserStore()
	cfg := testConfig()
	svc := NewAuthService(users, cfg)
	ctx := context.Background()

	staff, err := svc.CreateStaff(ctx, " Editor@Laum.ir ", "correct-horse", "سارا", "احمدی", false)
	if err != nil {
		t.Fatalf("CreateStaff() error = %v", err)
	}
	if staff.Email != "editor@laum.ir" || !staff.IsStaff {
		t.Errorf("CreateStaff() = %+v", staff)
	}

	hash, _ := security.HashPassword("visitor-pass")
	users.users["visitor@laum.ir"] = &models.User{ID: 50, Email: "visitor@laum.ir", PasswordHash: hash, IsActive: true}

	tests := []struct {
		name     string
		email    string
		password string
		wantCode string
	}{
		{name: "Valid", email: "editor@laum.ir", password: "correct-horse"},
		{name: "Wrong password", email: "editor@laum.ir", password: "wrong-horse", wantCode: errors.ErrCodeUnauthorized},
		{name: "Unknown user", email: "nobody@laum.ir", password: "correct-horse", wantCode: errors.ErrCodeUnauthorized},
		{name: "Not staff", email: "visitor@laum.ir", password: "visitor-pass", wantCode: errors.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Login(ctx, tt.email, tt.password)
			if tt.wantCode != "" {
				if errors.CodeOf(err) != tt.wantCode {
					t.Errorf("Login() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			claims, err := security.ValidateJWT(token, cfg.JWTSecret)
			if err != nil {
				t.Fatalf("ValidateJWT() error = %v", err)
			}
			if claims.UserID != staff.ID {
				t.Errorf("claims.UserID = %d, want %d", claims.UserID, staff.ID)
			}
		})
	}

	if len(users.lastLogins) != 1 {
		t.Errorf("lastLogins = %v, want one successful login", users.lastLogins)
	}
}

func TestAuthService_CreateStaff_Invalid(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), testConfig())
	ctx := context.Background()

	if _, err := svc.CreateStaff(ctx, "bad", "long-enough", "", "", false); errors.CodeOf(err) != errors.ErrCodeValidation {
		t.Errorf("CreateStaff() bad email error = %v, want VALIDATION_ERROR", err)
	}
	if _, err := svc.CreateStaff(ctx, "a@laum.ir", "short", "", "", false); errors.CodeOf(err) != errors.ErrCodeValidation {
		t.Errorf("CreateStaff() short password error = %v, want VALIDATION_ERROR", err)
	}
	if _, err := svc.CreateStaff(ctx, "a@laum.ir", "long-enough", "", "", true); err != nil {
		t.Fatalf("CreateStaff() error = %v", err)
	}
	if _, err := svc.CreateStaff(ctx, "a@laum.ir", "long-enough", "", "", false); errors.CodeOf(err) != errors.ErrCodeAlreadyExists {
		t.Errorf("CreateStaff() duplicate error = %v, want ALREADY_EXISTS", err)
	}
}

func TestSettingService(t *testing.T) {
	store := &fakeSettingStore{}
	svc := NewSettingService(store, config.SiteSettings{Title: "لاوم", ContactEmail: "info@laum.ir"})
	ctx := context.Background()

	if err := svc.Update(ctx, models.SettingSiteTitle, "  دانشنامه <i>لاوم</i> "); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := svc.Update(ctx, models.SettingGoogleAnalyticsID, ""); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	site, err := svc.Site(ctx)
	if err != nil {
		t.Fatalf("Site() error = %v", err)
	}
	if site.Title != "دانشنامه لاوم" {
		t.Errorf("Title = %q, want %q", site.Title, "دانشنامه لاوم")
	}
	if site.ContactEmail != "info@laum.ir" {
		t.Errorf("ContactEmail = %q, want the default", site.ContactEmail)
	}

	if err := svc.Update(ctx, "theme", "dark"); errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Errorf("Update() unknown key error = %v, want NOT_FOUND", err)
	}
	if err := svc.Update(ctx, models.SettingContactEmail, "nope"); errors.CodeOf(err) != errors.ErrCodeValidation {
		t.Errorf("Update() bad email error = %v, want VALIDATION_ERROR", err)
	}
}
