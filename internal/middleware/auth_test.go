package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrouhi13/laum/internal/security"
)

const testSecret = "test_secret_key_minimum_32_chars"

func TestRequireStaff(t *testing.T) {
	valid, err := security.GenerateJWT(7, "staff@laum.ir", false, testSecret, security.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "Valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "Missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "Garbage token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uint
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := ClaimsFrom(r.Context())
				if !ok {
					t.Error("ClaimsFrom() found no claims")
				} else {
					gotID = claims.UserID
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			RequireStaff(testSecret)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotID != 7 {
				t.Errorf("claims.UserID = %d, want 7", gotID)
			}
		})
	}
}
