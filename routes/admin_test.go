package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

// buildAdminTestApp creates a minimal Iris app with the admin routes, the
// JWT verifier, and an in-memory database behind the global handle.
func buildAdminTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	db.AutoMigrate(&models.User{}, &models.Post{}, &models.Image{}, &models.Schedule{})
	storage.DB = db

	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/posts", AdminListPendingPosts)
		admin.Post("/posts/{id:uint}/approve", AdminApprovePost)
		admin.Get("/stats", AdminStats)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}

func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func TestAdminPostsRBAC(t *testing.T) {
	app := buildAdminTestApp(t)

	// No token
	req := httptest.NewRequest(http.MethodGet, "/api/admin/posts", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// User role -> 403
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/posts", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp2.Code)
	}

	// Admin role -> 200 (empty list OK)
	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/posts", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken("admin"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp3.Code)
	}
}

func TestAdminApprovePost(t *testing.T) {
	app := buildAdminTestApp(t)

	post := models.Post{Title: "Draft room", City: "Hanoi", Status: models.PostStatusDraft}
	storage.DB.Create(&post)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/posts/1/approve", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken("admin"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 approving draft, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated models.Post
	storage.DB.First(&updated, post.ID)
	if updated.Status != models.PostStatusPublished {
		t.Fatalf("expected post to be published, got status %d", updated.Status)
	}

	// Unknown post -> 404
	req2 := httptest.NewRequest(http.MethodPost, "/api/admin/posts/99/approve", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken("admin"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown post, got %d", resp2.Code)
	}
}
