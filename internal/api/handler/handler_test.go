package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-api/config"
	"github.com/d60-Lab/blog-api/internal/api/handler"
	"github.com/d60-Lab/blog-api/internal/api/router"
	"github.com/d60-Lab/blog-api/internal/model"
	"github.com/d60-Lab/blog-api/internal/repository"
	"github.com/d60-Lab/blog-api/internal/service"
	"github.com/d60-Lab/blog-api/pkg/jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

type authPayload struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type testApp struct {
	engine *gin.Engine
	db     *gorm.DB
	tokens *jwt.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Post{}))

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Server.CORSOrigin = "http://localhost:3000"

	tokens := jwt.NewManager("test-secret", time.Hour)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	authSvc := service.NewAuthService(userRepo, tokens)
	postSvc := service.NewPostService(postRepo)
	h := handler.NewHandler(authSvc, postSvc)

	return &testApp{engine: router.New(cfg, h, tokens, authSvc), db: db, tokens: tokens}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	// 测试不请求压缩，便于直接解码响应体
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func (a *testApp) register(t *testing.T, name, email, password string) authPayload {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/auth/register", "",
		gin.H{"name": name, "email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code)
	var payload authPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return payload
}

func TestFullScenario(t *testing.T) {
	app := newTestApp(t)

	// register → 201 + token
	alice := app.register(t, "Alice", "a@x.com", "secret123")
	require.NotEmpty(t, alice.Token)
	require.Equal(t, "a@x.com", alice.User.Email)

	// login → 200 + token，解析回同一用户
	w, env := app.do(t, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": "a@x.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	var login authPayload
	require.NoError(t, json.Unmarshal(env.Data, &login))
	uid, err := app.tokens.Verify(login.Token)
	require.NoError(t, err)
	require.Equal(t, alice.User.ID, uid)

	// create → 201
	w, env = app.do(t, http.MethodPost, "/api/posts", alice.Token,
		gin.H{"title": "Hello", "content": "Body text here"})
	require.Equal(t, http.StatusCreated, w.Code)
	var post model.PostView
	require.NoError(t, json.Unmarshal(env.Data, &post))
	require.Equal(t, "Hello", post.Title)
	require.NotNil(t, post.Author)
	require.Equal(t, alice.User.ID, post.Author.ID)
	require.False(t, post.UpdatedAt.Before(post.CreatedAt))

	// 他人更新 → 403
	bob := app.register(t, "Bob", "b@x.com", "secret456")
	w, _ = app.do(t, http.MethodPut, "/api/posts/"+post.ID, bob.Token,
		gin.H{"title": "Hijacked title"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// 内容未被改动
	w, env = app.do(t, http.MethodGet, "/api/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unchanged model.PostView
	require.NoError(t, json.Unmarshal(env.Data, &unchanged))
	require.Equal(t, "Hello", unchanged.Title)

	// 属主删除 → 200；再读 → 404
	w, _ = app.do(t, http.MethodDelete, "/api/posts/"+post.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = app.do(t, http.MethodGet, "/api/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []gin.H{
		{"name": "Alice", "email": "not-an-email", "password": "secret123"},
		{"name": "A", "email": "a@x.com", "password": "secret123"},
		{"name": "Alice", "email": "a@x.com", "password": "short"},
		{"email": "a@x.com", "password": "secret123"},
	}
	for _, body := range cases {
		w, env := app.do(t, http.MethodPost, "/api/auth/register", "", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.False(t, env.Success)
	}

	app.register(t, "Alice", "a@x.com", "secret123")
	w, env := app.do(t, http.MethodPost, "/api/auth/register", "",
		gin.H{"name": "Imposter", "email": "a@x.com", "password": "secret456"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Email already registered", env.Message)
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "a@x.com", "secret123")

	// 密码错与邮箱不存在响应一致
	for _, body := range []gin.H{
		{"email": "a@x.com", "password": "wrongpass"},
		{"email": "ghost@x.com", "password": "secret123"},
	} {
		w, env := app.do(t, http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Invalid credentials", env.Message)
	}
}

func TestAuthGateMatrix(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "Alice", "a@x.com", "secret123")

	expired := jwt.NewManager("test-secret", time.Nanosecond)
	expiredToken, err := expired.Issue(alice.User.ID)
	require.NoError(t, err)
	forged, err := jwt.NewManager("other-secret", time.Hour).Issue(alice.User.ID)
	require.NoError(t, err)

	// 令牌有效但用户已不存在
	ghost := app.register(t, "Ghost", "g@x.com", "secret123")
	require.NoError(t, app.db.Where("id = ?", ghost.User.ID).Delete(&model.User{}).Error)

	tokens := map[string]string{
		"no token":     "",
		"garbage":      "garbage",
		"expired":      expiredToken,
		"forged":       forged,
		"deleted user": ghost.Token,
	}
	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			w, env := app.do(t, http.MethodGet, "/api/auth/me", token, nil)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.False(t, env.Success)

			w, _ = app.do(t, http.MethodPost, "/api/posts", token,
				gin.H{"title": "Hello", "content": "Body text here"})
			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	// 读路径公开
	w, _ := app.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMe(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "Alice", "a@x.com", "secret123")

	w, env := app.do(t, http.MethodGet, "/api/auth/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u model.User
	require.NoError(t, json.Unmarshal(env.Data, &u))
	require.Equal(t, "Alice", u.Name)
	// 响应里没有密码哈希
	require.NotContains(t, string(env.Data), "password")
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "Alice", "a@x.com", "secret123")

	w, env := app.do(t, http.MethodPost, "/api/auth/logout", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Logged out successfully", env.Message)

	// 无状态：旧令牌在过期前依然有效
	w, _ = app.do(t, http.MethodGet, "/api/auth/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListPostsPublicWithCount(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "Alice", "a@x.com", "secret123")

	for _, title := range []string{"First post", "Second post"} {
		w, _ := app.do(t, http.MethodPost, "/api/posts", alice.Token,
			gin.H{"title": title, "content": "content for " + title})
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(5 * time.Millisecond)
	}

	w, env := app.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	require.Equal(t, 2, *env.Count)

	var posts []model.PostView
	require.NoError(t, json.Unmarshal(env.Data, &posts))
	require.Equal(t, "Second post", posts[0].Title)
	require.Equal(t, "First post", posts[1].Title)
	require.NotNil(t, posts[0].Author)
	require.Equal(t, "Alice", posts[0].Author.Name)
}

func TestPostValidation(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "Alice", "a@x.com", "secret123")

	cases := []gin.H{
		{"title": "ab", "content": "long enough content"}, // 标题过短
		{"title": "Valid title", "content": "short"},      // 正文过短
		{"content": "long enough content"},                // 缺标题
		{"title": "Valid title"},                          // 缺正文
	}
	for _, body := range cases {
		w, _ := app.do(t, http.MethodPost, "/api/posts", alice.Token, body)
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetPostMalformedID(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "Alice", "a@x.com", "secret123")

	// 非法/不存在 ID 一律 404，绝不 500
	for _, id := range []string{"not-an-id", "12345", "00000000-0000-0000-0000-000000000000"} {
		w, _ := app.do(t, http.MethodGet, "/api/posts/"+id, "", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		w, _ = app.do(t, http.MethodPut, "/api/posts/"+id, alice.Token, gin.H{"title": "Whatever"})
		require.Equal(t, http.StatusNotFound, w.Code)

		w, _ = app.do(t, http.MethodDelete, "/api/posts/"+id, alice.Token, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestPartialUpdate(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "Alice", "a@x.com", "secret123")

	w, env := app.do(t, http.MethodPost, "/api/posts", alice.Token,
		gin.H{"title": "Original title", "content": "original content"})
	require.Equal(t, http.StatusCreated, w.Code)
	var post model.PostView
	require.NoError(t, json.Unmarshal(env.Data, &post))

	w, env = app.do(t, http.MethodPut, "/api/posts/"+post.ID, alice.Token,
		gin.H{"title": "New title"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.PostView
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, "New title", updated.Title)
	require.Equal(t, "original content", updated.Content)

	// 提供的字段仍需合法
	w, _ = app.do(t, http.MethodPut, "/api/posts/"+post.ID, alice.Token,
		gin.H{"title": "ab"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndRoot(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Blog API is running", env.Message)

	w, env = app.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Contains(t, string(env.Data), "timestamp")
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)
	require.Equal(t, "Route not found", env.Message)
}
