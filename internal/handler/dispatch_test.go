package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchdesk/staff-scheduler/backend/internal/config"
	"github.com/watchdesk/staff-scheduler/backend/internal/handler"
)

func newTestHandler(t *testing.T) *handler.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Dispatch.Simulate = true
	cfg.JWT.Secret = "test-secret"
	cfg.RabbitMQ.PublishTimeout = 1

	h, err := handler.NewHandler(cfg, nil, nil, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func doJSON(h *handler.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)
	return rec
}

func TestDispatchPreflightAlwaysOK(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/send-vacancy-alert", "/send-text-alert", "/update-password"} {
		rec := doJSON(h, http.MethodOptions, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, "OPTIONS %s", path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "authorization")
	}
}

func TestDispatchRejectsNonPost(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/send-vacancy-alert", "/send-text-alert", "/update-password"} {
		rec := doJSON(h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "GET %s", path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	}
}

func TestSendVacancyAlertRequiresFields(t *testing.T) {
	h := newTestHandler(t)

	tests := map[string]string{
		"空请求体":    `{}`,
		"缺少收件人":   `{"subject":"New Vacancy Alert","message":"hi"}`,
		"缺少标题":    `{"to":"a@example.org","message":"hi"}`,
		"缺少正文":    `{"to":"a@example.org","subject":"New Vacancy Alert"}`,
		"非法 JSON": `{`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(h, http.MethodPost, "/send-vacancy-alert", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestSendVacancyAlertSimulated(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(h, http.MethodPost, "/send-vacancy-alert",
		`{"to":"a@example.org","subject":"New Vacancy Alert","message":"New shift vacancy for Night on March 14, 2026","alertId":42}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Simulated bool   `json:"simulated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Simulated)
	assert.NotEmpty(t, resp.Message)
}

func TestSendTextAlertRequiresFields(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(h, http.MethodPost, "/send-text-alert", `{"to":"13800000000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(h, http.MethodPost, "/send-text-alert", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendTextAlertSimulated(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(h, http.MethodPost, "/send-text-alert", `{"to":"13800000000","message":"New shift vacancy"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["simulated"])
}

func TestUpdatePasswordValidatesBeforeAuth(t *testing.T) {
	h := newTestHandler(t)

	// 密码太短时直接 400，不应该走到 token 校验
	rec := doJSON(h, http.MethodPost, "/update-password", `{"userId":1,"newPassword":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(h, http.MethodPost, "/update-password", `{"newPassword":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePasswordRequiresBearerToken(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(h, http.MethodPost, "/update-password", `{"userId":1,"newPassword":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/update-password", strings.NewReader(`{"userId":1,"newPassword":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	h.Mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
