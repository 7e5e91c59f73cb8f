package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab_backend/internal/api"
	"lab_backend/internal/feature/message/domain/entity"
	"lab_backend/internal/feature/message/usecase"
	jwtmw "lab_backend/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockMessageUsecase はMessageUsecaseインターフェースのモック実装です。
type mockMessageUsecase struct {
	SendFunc         func(ctx context.Context, senderID uint, in usecase.SendInput) (*usecase.SendResult, error)
	ListReceivedFunc func(ctx context.Context, userID uint) ([]entity.ReceivedMessage, error)
}

func (m *mockMessageUsecase) Send(ctx context.Context, senderID uint, in usecase.SendInput) (*usecase.SendResult, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, senderID, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockMessageUsecase) ListReceived(ctx context.Context, userID uint) ([]entity.ReceivedMessage, error) {
	if m.ListReceivedFunc != nil {
		return m.ListReceivedFunc(ctx, userID)
	}
	return nil, nil
}

func newRouter(h *MessageHandler) *gin.Engine {
	r := gin.New()
	auth := func(c *gin.Context) { c.Set(jwtmw.ContextUserID, uint(1)); c.Next() }
	r.POST("/messages/send", auth, h.Send)
	r.GET("/messages/received", auth, h.Received)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMessageHandler_Send(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"sent", `{"title":"t","body":"b","receiver_email":"r@x.com"}`, nil, http.StatusCreated, ""},
		{"legacy field", `{"title":"t","body":"b","receiverEmail":"r@x.com"}`, nil, http.StatusCreated, ""},
		{"missing fields", `{"title":"t"}`, usecase.ErrInvalidMessage, http.StatusBadRequest, api.CodeInvalidRequest},
		{"unknown receiver", `{"title":"t","body":"b","receiver_email":"n@x.com"}`, usecase.ErrReceiverNotFound, http.StatusNotFound, api.CodeUserNotFound},
		{"storage failure", `{"title":"t","body":"b","receiver_email":"r@x.com"}`, errors.New("db"), http.StatusInternalServerError, api.CodeInternal},
		{"malformed json", `{`, nil, http.StatusBadRequest, api.CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got usecase.SendInput
			h := NewMessageHandler(&mockMessageUsecase{SendFunc: func(ctx context.Context, senderID uint, in usecase.SendInput) (*usecase.SendResult, error) {
				got = in
				if tt.err != nil {
					return nil, tt.err
				}
				return &usecase.SendResult{
					Message:      &entity.Message{ID: 5, Title: in.Title, SenderID: senderID},
					Notification: entity.DeliverySummary{Success: true, TotalDevices: 1, SuccessCount: 1},
				}, nil
			}})

			w := postJSON(newRouter(h), "/messages/send", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp api.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "r@x.com", got.ReceiverEmail)
				data := resp.Data.(map[string]any)
				assert.EqualValues(t, 1, data["notification"].(map[string]any)["success_count"])
			}
		})
	}
}

func TestMessageHandler_Received(t *testing.T) {
	h := NewMessageHandler(&mockMessageUsecase{ListReceivedFunc: func(ctx context.Context, userID uint) ([]entity.ReceivedMessage, error) {
		if userID != 1 {
			return nil, errors.New("wrong user")
		}
		return []entity.ReceivedMessage{{ID: 2, Title: "hi", SenderEmail: "s@x.com"}}, nil
	}})

	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/received", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp.Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "s@x.com", items[0].(map[string]any)["sender_email"])
}
