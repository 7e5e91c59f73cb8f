package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab_backend/internal/api"
	"lab_backend/internal/feature/auth/domain"
	authentity "lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/user/domain/entity"
	"lab_backend/internal/feature/user/usecase"
	jwtmw "lab_backend/internal/platform/jwt"
	"lab_backend/internal/platform/upload"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockUserUsecase はUserUsecaseインターフェースのモック実装です。
type mockUserUsecase struct {
	ListFunc           func(ctx context.Context) ([]authentity.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*authentity.User, error)
	UpdateProfileFunc  func(ctx context.Context, id uint, update authentity.ProfileUpdate) (*authentity.User, error)
	RegisterDeviceFunc func(ctx context.Context, id uint, token, platform string) error
	ListDevicesFunc    func(ctx context.Context, id uint) ([]entity.DeviceToken, error)
}

func (m *mockUserUsecase) ListDevices(ctx context.Context, id uint) ([]entity.DeviceToken, error) {
	if m.ListDevicesFunc != nil {
		return m.ListDevicesFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserUsecase) List(ctx context.Context) ([]authentity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserUsecase) GetByEmail(ctx context.Context, email string) (*authentity.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserUsecase) UpdateProfile(ctx context.Context, id uint, update authentity.ProfileUpdate) (*authentity.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, update)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserUsecase) RegisterDevice(ctx context.Context, id uint, token, platform string) error {
	if m.RegisterDeviceFunc != nil {
		return m.RegisterDeviceFunc(ctx, id, token, platform)
	}
	return nil
}

type mockUploader struct {
	url string
	err error
}

func (m *mockUploader) SaveImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	return m.url, m.err
}

func newRouter(h *UserHandler) *gin.Engine {
	r := gin.New()
	auth := func(c *gin.Context) { c.Set(jwtmw.ContextUserID, uint(4)); c.Next() }
	r.GET("/users", h.List)
	r.GET("/users/:email", h.GetByEmail)
	r.PUT("/users/me", auth, h.UpdateMe)
	r.POST("/users/fcm-token", auth, h.RegisterFCMToken)
	r.GET("/devices", auth, h.ListDevices)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) api.Response {
	t.Helper()
	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestUserHandler_List(t *testing.T) {
	h := NewUserHandler(&mockUserUsecase{ListFunc: func(ctx context.Context) ([]authentity.User, error) {
		return []authentity.User{{ID: 1, Email: "a@b.com", Password: "hash"}, {ID: 2, Email: "c@d.com", Password: "hash"}}, nil
	}}, &mockUploader{})

	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hash")
	resp := decode(t, w)
	assert.Len(t, resp.Data.([]any), 2)
}

func TestUserHandler_GetByEmail(t *testing.T) {
	h := NewUserHandler(&mockUserUsecase{GetByEmailFunc: func(ctx context.Context, email string) (*authentity.User, error) {
		if email == "a@b.com" {
			return &authentity.User{ID: 1, Email: email, FullName: "A"}, nil
		}
		return nil, domain.ErrUserNotFound
	}}, &mockUploader{})
	r := newRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/a@b.com", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", decode(t, w).Data.(map[string]any)["full_name"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/x@y.com", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.CodeUserNotFound, decode(t, w).Code)
}

func TestUserHandler_UpdateMe(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		var got authentity.ProfileUpdate
		h := NewUserHandler(&mockUserUsecase{UpdateProfileFunc: func(ctx context.Context, id uint, update authentity.ProfileUpdate) (*authentity.User, error) {
			got = update
			return &authentity.User{ID: id, FullName: *update.FullName}, nil
		}}, &mockUploader{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewBufferString(`{"full_name":"Neo"}`))
		req.Header.Set("Content-Type", "application/json")
		newRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got.FullName)
		assert.Equal(t, "Neo", *got.FullName)
		assert.Nil(t, got.PhoneNumber)
		assert.Nil(t, got.PhotoURL)
	})

	multipartReq := func(t *testing.T) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("phone_number", "555"))
		part, err := mw.CreateFormFile("photo", "me.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPut, "/users/me", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	t.Run("multipart with photo", func(t *testing.T) {
		var got authentity.ProfileUpdate
		h := NewUserHandler(&mockUserUsecase{UpdateProfileFunc: func(ctx context.Context, id uint, update authentity.ProfileUpdate) (*authentity.User, error) {
			got = update
			return &authentity.User{ID: id}, nil
		}}, &mockUploader{url: "/uploads/user-1.png"})

		w := httptest.NewRecorder()
		newRouter(h).ServeHTTP(w, multipartReq(t))

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got.PhotoURL)
		assert.Equal(t, "/uploads/user-1.png", *got.PhotoURL)
		require.NotNil(t, got.PhoneNumber)
		assert.Equal(t, "555", *got.PhoneNumber)
	})

	t.Run("rejected photo", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{}, &mockUploader{err: upload.ErrTooLarge})

		w := httptest.NewRecorder()
		newRouter(h).ServeHTTP(w, multipartReq(t))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("nothing to update", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{UpdateProfileFunc: func(ctx context.Context, id uint, update authentity.ProfileUpdate) (*authentity.User, error) {
			return nil, usecase.ErrEmptyProfileUpdate
		}}, &mockUploader{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		newRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_RegisterFCMToken(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantToken  string
	}{
		{"snake case field", `{"fcm_token":"abc","platform":"android"}`, nil, http.StatusOK, "abc"},
		{"legacy camel case field", `{"fcmToken":"legacy"}`, nil, http.StatusOK, "legacy"},
		{"missing token", `{}`, usecase.ErrMissingDeviceToken, http.StatusBadRequest, ""},
		{"storage error", `{"fcm_token":"abc"}`, errors.New("down"), http.StatusInternalServerError, "abc"},
		{"invalid json", `{`, nil, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken string
			var gotUser uint
			h := NewUserHandler(&mockUserUsecase{RegisterDeviceFunc: func(ctx context.Context, id uint, token, platform string) error {
				gotToken, gotUser = token, id
				return tt.err
			}}, &mockUploader{})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users/fcm-token", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(h).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantToken != "" {
				assert.Equal(t, tt.wantToken, gotToken)
				assert.Equal(t, uint(4), gotUser)
			}
		})
	}
}

func TestUserHandler_ListDevices(t *testing.T) {
	t.Run("returns caller devices", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{ListDevicesFunc: func(ctx context.Context, id uint) ([]entity.DeviceToken, error) {
			return []entity.DeviceToken{{UserID: id, Token: "abc", Platform: "ios"}}, nil
		}}, &mockUploader{})

		w := httptest.NewRecorder()
		newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/devices", nil))

		require.Equal(t, http.StatusOK, w.Code)
		items := decode(t, w).Data.([]any)
		require.Len(t, items, 1)
		assert.EqualValues(t, 4, items[0].(map[string]any)["user_id"])
	})

	t.Run("empty list", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{}, &mockUploader{})

		w := httptest.NewRecorder()
		newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/devices", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode(t, w).Data)
	})
}
