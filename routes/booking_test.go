package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

func buildBookingTestApp(t *testing.T) *iris.Application {
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
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	posts := app.Party("/api/posts")
	{
		posts.Get("/{id:uint}/schedule", GetPostSchedule)
		posts.Post("/{id:uint}/booking", accessTokenVerifierMiddleware, CreateBooking)
	}
	schedules := app.Party("/api/schedules")
	{
		schedules.Post("/{id:uint}/rating", accessTokenVerifierMiddleware, AttachRating)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}

func doBooking(t *testing.T, app *iris.Application, postPath, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, postPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestCreateBookingConflict(t *testing.T) {
	app := buildBookingTestApp(t)

	post := models.Post{Title: "Room", City: "Hanoi", Status: models.PostStatusPublished}
	storage.DB.Create(&post)
	storage.DB.Create(&models.Schedule{
		PostID:   post.ID,
		UserID:   2,
		FromDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	// Overlapping range -> 409
	resp := doBooking(t, app, "/api/posts/1/booking", `{"fromDate":"2024-03-05","toDate":"2024-03-08"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping range, got %d: %s", resp.Code, resp.Body.String())
	}

	// Disjoint range -> admitted, response echoes the booked interval
	resp = doBooking(t, app, "/api/posts/1/booking", `{"fromDate":"2024-03-11","toDate":"2024-03-15"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for free range, got %d: %s", resp.Code, resp.Body.String())
	}
	var admitted struct {
		ScheduleID uint   `json:"scheduleID"`
		PostID     uint   `json:"postID"`
		FromDate   string `json:"fromDate"`
		ToDate     string `json:"toDate"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &admitted); err != nil {
		t.Fatalf("bad admission body: %v", err)
	}
	if admitted.ScheduleID == 0 || admitted.FromDate != "2024-03-11" || admitted.ToDate != "2024-03-15" {
		t.Fatalf("admission body does not echo the booked interval: %+v", admitted)
	}

	var count int64
	storage.DB.Model(&models.Schedule{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 schedules after admission, got %d", count)
	}

	// Malformed dates -> 400
	resp = doBooking(t, app, "/api/posts/1/booking", `{"fromDate":"soon","toDate":"later"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed dates, got %d", resp.Code)
	}

	// Unknown post -> 404
	resp = doBooking(t, app, "/api/posts/99/booking", `{"fromDate":"2024-05-01","toDate":"2024-05-03"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown post, got %d", resp.Code)
	}
}

func TestAttachRatingRoute(t *testing.T) {
	app := buildBookingTestApp(t)

	post := models.Post{Title: "Room", City: "Hanoi", Status: models.PostStatusPublished}
	storage.DB.Create(&post)
	// Schedule owned by token user (ID 1)
	schedule := models.Schedule{
		PostID:   post.ID,
		UserID:   1,
		FromDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	storage.DB.Create(&schedule)

	// Out-of-range score -> 400
	resp := doBooking(t, app, "/api/schedules/1/rating", `{"score":9}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for score 9, got %d", resp.Code)
	}

	// Valid scores stored
	resp = doBooking(t, app, "/api/schedules/1/rating", `{"score":5,"score1":4}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid rating, got %d: %s", resp.Code, resp.Body.String())
	}
	var updated models.Schedule
	storage.DB.First(&updated, schedule.ID)
	if updated.StayRating == nil || *updated.StayRating != 5 || updated.HostRating == nil || *updated.HostRating != 4 {
		t.Fatalf("ratings not stored: %+v", updated)
	}

	// Someone else's schedule -> 403
	other := models.Schedule{
		PostID:   post.ID,
		UserID:   2,
		FromDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
	}
	storage.DB.Create(&other)
	resp = doBooking(t, app, "/api/schedules/2/rating", `{"score":3}`)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 rating another user's stay, got %d", resp.Code)
	}
}

func TestGetPostSchedule(t *testing.T) {
	app := buildBookingTestApp(t)

	post := models.Post{Title: "Room", City: "Hanoi", Status: models.PostStatusPublished}
	storage.DB.Create(&post)

	future := time.Now().AddDate(0, 1, 0)
	past := time.Now().AddDate(0, -2, 0)
	storage.DB.Create(&models.Schedule{PostID: post.ID, UserID: 2, FromDate: future, ToDate: future.AddDate(0, 0, 4)})
	storage.DB.Create(&models.Schedule{PostID: post.ID, UserID: 3, FromDate: past, ToDate: past.AddDate(0, 0, 4)})

	req := httptest.NewRequest(http.MethodGet, "/api/posts/1/schedule", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var ranges []map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &ranges); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(ranges) != 1 {
		t.Fatalf("expected only the upcoming range, got %v", ranges)
	}
}
