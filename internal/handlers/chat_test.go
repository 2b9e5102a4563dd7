package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mindmate/internal/service"
	"mindmate/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewChatHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChatService := mocks.NewMockChatService(ctrl)
	handler := NewChatHandler(mockChatService)

	if handler == nil {
		t.Fatal("NewChatHandler() returned nil")
	}
	if handler.chatService != mockChatService {
		t.Error("NewChatHandler() chatService not set correctly")
	}
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reply := service.Message{ID: "id-1", Text: "<strong>Hi</strong>", Sender: service.SenderBot, IsHTML: true}

	tests := []struct {
		name          string
		method        string
		body          string
		mockSetup     func(*mocks.MockChatService)
		wantStatus    int
		wantError     string
		checkResponse func(*httptest.ResponseRecorder) bool
	}{
		{
			name:   "successful POST request",
			method: http.MethodPost,
			body:   `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello"}).
					Return(service.ChatResponse{Reply: reply}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(w *httptest.ResponseRecorder) bool {
				var resp ChatResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					return false
				}
				return resp.Message.Text == "<strong>Hi</strong>" && resp.Message.IsHTML
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			method: http.MethodPost,
			body:   `{"message":""}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: ""}).
					Return(service.ChatResponse{}, &service.ValidationError{
						Field:   "message",
						Message: "cannot be empty",
					})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "busy",
			method: http.MethodPost,
			body:   `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello"}).
					Return(service.ChatResponse{}, service.ErrBusy)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "external service error returns fallback reply",
			method: http.MethodPost,
			body:   `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello"}).
					Return(service.ChatResponse{}, fmt.Errorf("wrapped: %w", service.ErrExternalService))
			},
			wantStatus: http.StatusBadGateway,
			wantError:  service.FallbackReply,
		},
		{
			name:   "unexpected error",
			method: http.MethodPost,
			body:   `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello"}).
					Return(service.ChatResponse{}, errors.New("service error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			handler := NewChatHandler(mockChatService)

			req := httptest.NewRequest(tt.method, "/api/chat", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.wantError != "" {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("ServeHTTP() invalid error JSON: %v", err)
				}
				if resp.Error != tt.wantError {
					t.Errorf("ServeHTTP() error = %q, want %q", resp.Error, tt.wantError)
				}
			}

			if tt.checkResponse != nil && !tt.checkResponse(w) {
				t.Error("ServeHTTP() response validation failed")
			}
		})
	}
}

func TestChatHandler_handleStreamingChat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reply := service.Message{ID: "id-1", Text: "Hello <em>world</em>", Sender: service.SenderBot, IsHTML: true}

	tests := []struct {
		name         string
		body         string
		mockSetup    func(*mocks.MockChatService)
		wantStatus   int
		wantContains []string
		wantMissing  []string
	}{
		{
			name: "successful streaming",
			body: `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), service.ChatRequest{Message: "Hello"}, gomock.Any()).
					DoAndReturn(func(ctx context.Context, req service.ChatRequest, callback func(chunk string) error) (service.ChatResponse, error) {
						for _, chunk := range []string{"Hello", " *world*", "\nbye"} {
							if err := callback(chunk); err != nil {
								return service.ChatResponse{}, err
							}
						}
						return service.ChatResponse{Reply: reply}, nil
					})
			},
			wantStatus: http.StatusOK,
			wantContains: []string{
				"data: Hello\n\n",
				"data:  *world*\n\n",
				"data: \ndata: bye\n\n",
				"event: message\ndata: {",
				"data: [DONE]\n\n",
			},
		},
		{
			name:       "invalid JSON body",
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "error before first chunk uses status code",
			body: `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), service.ChatRequest{Message: "Hello"}, gomock.Any()).
					Return(service.ChatResponse{}, service.ErrBusy)
			},
			wantStatus:  http.StatusConflict,
			wantMissing: []string{"[DONE]"},
		},
		{
			name: "error mid stream is sent as event",
			body: `{"message":"Hello"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), service.ChatRequest{Message: "Hello"}, gomock.Any()).
					DoAndReturn(func(ctx context.Context, req service.ChatRequest, callback func(chunk string) error) (service.ChatResponse, error) {
						_ = callback("Hel")
						return service.ChatResponse{}, fmt.Errorf("stream: %w", service.ErrExternalService)
					})
			},
			wantStatus:   http.StatusOK,
			wantContains: []string{"data: Hel\n\n", "event: error\n", service.FallbackReply},
			wantMissing:  []string{"[DONE]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			handler := NewChatHandler(mockChatService)

			req := httptest.NewRequest(http.MethodPost, "/api/chat?stream=true", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("handleStreamingChat() status = %v, want %v", w.Code, tt.wantStatus)
			}

			body := w.Body.String()
			if len(tt.wantContains) > 0 && w.Header().Get("Content-Type") != "text/event-stream" {
				t.Error("handleStreamingChat() missing Content-Type header")
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(body, want) {
					t.Errorf("handleStreamingChat() body %q missing %q", body, want)
				}
			}
			for _, unwanted := range tt.wantMissing {
				if strings.Contains(body, unwanted) {
					t.Errorf("handleStreamingChat() body %q should not contain %q", body, unwanted)
				}
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, http.StatusBadRequest, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("writeError() status = %v, want %v", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("writeError() invalid JSON: %v", err)
	}

	if resp.Error != "test error" {
		t.Errorf("writeError() error = %v, want test error", resp.Error)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: &service.ValidationError{Field: "message", Message: "x"}, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: service.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "busy", err: service.ErrBusy, wantStatus: http.StatusConflict},
		{name: "external", err: service.ErrExternalService, wantStatus: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := classifyError(tt.err, "default")
			if got != tt.wantStatus {
				t.Errorf("classifyError() = %v, want %v", got, tt.wantStatus)
			}
		})
	}
}
