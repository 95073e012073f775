package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fintrack/fintrack/internal/handler/dto"
)

func TestHandler_Hello(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Hello(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["message"] != "fintrack API" {
		t.Errorf("unexpected message: %s", response["message"])
	}

	if response["version"] != Version {
		t.Errorf("unexpected version: %s", response["version"])
	}
}

func TestHandler_Fallbacks(t *testing.T) {
	h := New()

	tests := []struct {
		name       string
		serve      http.HandlerFunc
		method     string
		wantStatus int
		wantCode   string
	}{
		{"not found", h.NotFound, http.MethodGet, http.StatusNotFound, "NOT_FOUND"},
		{"method not allowed", h.MethodNotAllowed, http.MethodPatch, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.serve(rec, httptest.NewRequest(tt.method, "/nonexistent", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", response.Code, tt.wantCode)
			}
			if response.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}
