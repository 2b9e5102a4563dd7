package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mindmate/internal/service"
	"mindmate/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		method     string
		status     service.Status
		wantStatus int
		wantBody   string
		wantChecks map[string]string
		wantIssues int
	}{
		{
			name:       "healthy and idle",
			method:     http.MethodGet,
			status:     service.Status{APIKeyConfigured: true},
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
			wantChecks: map[string]string{"api_key": "ok", "chat": "idle"},
		},
		{
			name:       "healthy and busy",
			method:     http.MethodGet,
			status:     service.Status{APIKeyConfigured: true, Thinking: true},
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
			wantChecks: map[string]string{"api_key": "ok", "chat": "busy"},
		},
		{
			name:       "missing api key",
			method:     http.MethodGet,
			status:     service.Status{},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
			wantChecks: map[string]string{"api_key": "missing", "chat": "idle"},
			wantIssues: 1,
		},
		{
			name:       "method not allowed",
			method:     http.MethodPost,
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatService := mocks.NewMockChatService(ctrl)
			if tt.method == http.MethodGet {
				mockChatService.EXPECT().Status(gomock.Any()).Return(tt.status)
			}

			handler := NewHealthHandler(mockChatService, "gemini", "gemini-2.5-flash-lite")
			req := httptest.NewRequest(tt.method, "/api/health", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantBody == "" {
				return
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("ServeHTTP() invalid JSON: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("ServeHTTP() status field = %q, want %q", resp.Status, tt.wantBody)
			}
			if resp.Provider != "gemini" || resp.Model != "gemini-2.5-flash-lite" {
				t.Errorf("ServeHTTP() provider/model = %q/%q", resp.Provider, resp.Model)
			}
			for k, v := range tt.wantChecks {
				if resp.Checks[k] != v {
					t.Errorf("ServeHTTP() checks[%q] = %q, want %q", k, resp.Checks[k], v)
				}
			}
			if len(resp.Issues) != tt.wantIssues {
				t.Errorf("ServeHTTP() issues = %v, want %d", resp.Issues, tt.wantIssues)
			}
		})
	}
}
