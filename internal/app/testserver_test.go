package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gigmarket_backend/internal/app"
	"gigmarket_backend/internal/config"
	"gigmarket_backend/internal/email"
	"gigmarket_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer - роутер приложения поверх sqlite в памяти
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Mail   *email.LogProvider
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = "app-test-secret"

	mail := email.NewLogProvider(email.NewTemplateManager())
	deps := app.Deps{Notifier: email.NewNotifier(mail, cfg.Server.ClientURL)}
	t.Cleanup(deps.Notifier.Wait)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router, _, err := app.SetupRouter(ctx, cfg, db, deps)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{Server: server, DB: db, Mail: mail}
}

// Response - разобранный конверт ответа
type Response struct {
	Status int
	Body   map[string]interface{}
	Raw    string
}

func (r Response) Object(key string) map[string]interface{} {
	obj, _ := r.Body[key].(map[string]interface{})
	return obj
}

func (r Response) List(key string) []interface{} {
	list, _ := r.Body[key].([]interface{})
	return list
}

func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	out := Response{Status: res.StatusCode, Raw: string(raw)}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), "body: %s", raw)
	}
	return out
}

// Signup регистрирует пользователя и возвращает токен и id
func (ts *TestServer) Signup(t *testing.T, name, mail, userType string) (token, id string) {
	t.Helper()
	res := ts.SendRequest(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     name,
		"email":    mail,
		"password": testutil.DefaultPassword,
		"userType": userType,
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Raw)

	token, _ = res.Body["token"].(string)
	id, _ = res.Object("user")["id"].(string)
	require.NotEmpty(t, token)
	require.NotEmpty(t, id)
	return token, id
}
