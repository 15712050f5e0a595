package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/hoainguyen219/guest-home-api/routes"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeObjectStore()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetMe)
	}

	posts := app.Party("/api/posts")
	{
		posts.Get("/", routes.SearchPosts)
		posts.Get("/feed/{page:int}", routes.GetNewsFeed)
		posts.Get("/{id:uint}", routes.GetPost)
		posts.Get("/{id:uint}/schedule", routes.GetPostSchedule)
		posts.Post("/", accessTokenVerifierMiddleware, routes.CreatePost)
		posts.Put("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdatePost)
		posts.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeletePost)
		posts.Get("/user/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetPostsByUserID)
		posts.Post("/{id:uint}/booking", accessTokenVerifierMiddleware, routes.CreateBooking)
	}

	schedules := app.Party("/api/schedules")
	{
		schedules.Post("/{id:uint}/rating", accessTokenVerifierMiddleware, routes.AttachRating)
		schedules.Get("/user/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserSchedules)
		schedules.Get("/manage/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetManagedSchedules)
	}

	location := app.Party("/api/location")
	{
		location.Get("/cities", routes.GetCities)
		location.Get("/cities/{id:uint}/districts", routes.GetDistricts)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/posts", routes.AdminListPendingPosts)
		admin.Post("/posts/{id:uint}/approve", routes.AdminApprovePost)
		admin.Get("/stats", routes.AdminStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Println("Server listening on port " + port)
	app.Listen(":" + port)
}
