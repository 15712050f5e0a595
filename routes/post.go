package routes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/services"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

const feedPerPage = 15

type UtilitiesInput struct {
	AirCondition        bool `json:"airCondition"`
	WC                  bool `json:"wc"`
	Garage              bool `json:"garage"`
	ElectricWaterHeater bool `json:"electricWaterHeater"`
}

type CreatePostInput struct {
	Title       string         `json:"title" validate:"required,max=256"`
	Description string         `json:"description"`
	Address     string         `json:"address" validate:"required,max=512"`
	City        string         `json:"city" validate:"required,max=128"`
	District    string         `json:"district" validate:"max=128"`
	Area        float64        `json:"area" validate:"gte=0"`
	Price       float64        `json:"price" validate:"required,gte=0"`
	Bedroom     int            `json:"bedroom" validate:"gte=0"`
	Bathroom    int            `json:"bathroom" validate:"gte=0"`
	Lat         float64        `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64        `json:"lng" validate:"gte=-180,lte=180"`
	Utilities   UtilitiesInput `json:"utilities"`
	Images      []string       `json:"images" validate:"max=5"`
}

type UpdatePostInput = CreatePostInput

func CreatePost(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePostInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	post := models.Post{
		UserID:              claims.ID,
		Title:               input.Title,
		Description:         input.Description,
		Address:             input.Address,
		City:                input.City,
		District:            input.District,
		Area:                input.Area,
		Price:               input.Price,
		Bedroom:             input.Bedroom,
		Bathroom:            input.Bathroom,
		Lat:                 input.Lat,
		Lng:                 input.Lng,
		Status:              models.PostStatusDraft,
		AirCondition:        input.Utilities.AirCondition,
		WC:                  input.Utilities.WC,
		Garage:              input.Utilities.Garage,
		ElectricWaterHeater: input.Utilities.ElectricWaterHeater,
	}

	if res := storage.DB.Create(&post); res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	urls := insertImages(input.Images, post.ID)
	for _, url := range urls {
		storage.DB.Create(&models.Image{PostID: post.ID, URL: url})
	}

	storage.DB.Preload("Images").First(&post, post.ID)
	ctx.JSON(post)
}

func UpdatePost(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var post models.Post
	if storage.DB.Find(&post, id).RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if post.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdatePostInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	post.Title = input.Title
	post.Description = input.Description
	post.Address = input.Address
	post.City = input.City
	post.District = input.District
	post.Area = input.Area
	post.Price = input.Price
	post.Bedroom = input.Bedroom
	post.Bathroom = input.Bathroom
	post.Lat = input.Lat
	post.Lng = input.Lng
	post.AirCondition = input.Utilities.AirCondition
	post.WC = input.Utilities.WC
	post.Garage = input.Utilities.Garage
	post.ElectricWaterHeater = input.Utilities.ElectricWaterHeater

	if res := storage.DB.Save(&post); res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Images are replaced wholesale on update: drop the old rows, keep any
	// already-hosted URLs from the payload, upload the new payloads.
	var oldImages []models.Image
	storage.DB.Where("post_id = ?", post.ID).Find(&oldImages)
	urls := insertImages(input.Images, post.ID)

	storage.DB.Where("post_id = ?", post.ID).Delete(&models.Image{})
	for _, url := range urls {
		storage.DB.Create(&models.Image{PostID: post.ID, URL: url})
	}
	for _, old := range oldImages {
		stillUsed := false
		for _, url := range urls {
			if url == old.URL {
				stillUsed = true
				break
			}
		}
		if !stillUsed {
			storage.DeleteImage(old.URL)
		}
	}

	storage.DB.Preload("Images").First(&post, post.ID)
	ctx.JSON(post)
}

func GetPost(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var post models.Post
	res := storage.DB.Preload("Images").Find(&post, id)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	today := time.Now().Format("2006-01-02")
	var schedules []models.Schedule
	storage.DB.Preload("User").
		Where("post_id = ? AND to_date >= ?", post.ID, today).
		Order("from_date ASC").
		Find(&schedules)

	agg := aggregateRatings(post.ID)

	ctx.JSON(iris.Map{
		"post":         post,
		"schedule":     schedules,
		"totalReview":  agg.TotalReview,
		"totalReview1": agg.TotalReview1,
		"avgScore":     agg.AvgScore,
		"avgScore1":    agg.AvgScore1,
	})
}

func GetPostsByUserID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var posts []models.Post
	res := storage.DB.Preload("Images").
		Where("user_id = ?", id).
		Order("id DESC").
		Find(&posts)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	result := make([]iris.Map, 0, len(posts))
	for _, post := range posts {
		agg := aggregateRatings(post.ID)
		result = append(result, iris.Map{
			"post":         post,
			"totalReview":  agg.TotalReview,
			"totalReview1": agg.TotalReview1,
			"avgScore":     agg.AvgScore,
			"avgScore1":    agg.AvgScore1,
		})
	}

	ctx.JSON(result)
}

// GetNewsFeed pages through all posts, newest page semantics preserved
// from the legacy endpoint: fixed page size, page numbers start at 1.
func GetNewsFeed(ctx iris.Context) {
	page, err := strconv.Atoi(ctx.Params().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	var posts []models.Post
	res := storage.DB.Preload("Images").
		Offset((page - 1) * feedPerPage).
		Limit(feedPerPage).
		Find(&posts)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var total int64
	storage.DB.Model(&models.Post{}).Count(&total)
	utils.JSONPage(ctx, posts, page, feedPerPage, total)
}

func DeletePost(ctx iris.Context) {
	id, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid post id", ctx)
		return
	}
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var post models.Post
	if storage.DB.Find(&post, id).RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	if post.UserID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	booking := services.NewBookingService(storage.DB)
	if _, err := booking.DeletePost(uint(id), time.Now()); err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			utils.CreateError(iris.StatusConflict, "Conflict",
				"Post has upcoming reservations and cannot be deleted.", ctx)
		case errors.Is(err, services.ErrNotFound):
			utils.CreateNotFound(ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

type ratingAggregate struct {
	TotalReview  int64    `json:"totalReview"`
	TotalReview1 int64    `json:"totalReview1"`
	AvgScore     *float64 `json:"avgScore"`
	AvgScore1    *float64 `json:"avgScore1"`
}

// aggregateRatings computes review counts and the two average scores over
// a post's schedules. Averages stay nil while no rating of that kind exists.
func aggregateRatings(postID uint) ratingAggregate {
	var agg ratingAggregate
	storage.DB.Model(&models.Schedule{}).
		Select("COUNT(stay_rating) AS total_review, COUNT(host_rating) AS total_review1, AVG(stay_rating) AS avg_score, AVG(host_rating) AS avg_score1").
		Where("post_id = ?", postID).
		Scan(&agg)
	return agg
}

// insertImages uploads base64 payloads and passes hosted URLs through.
func insertImages(images []string, postID uint) []string {
	var urls []string
	for i, image := range images {
		if image == "" {
			continue
		}
		if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
			urls = append(urls, image)
			continue
		}
		timestamp := time.Now().UnixNano() / int64(time.Millisecond)
		publicID := fmt.Sprintf("post/%d/post_%d_%d", postID, timestamp, i)
		if url := storage.UploadBase64Image(image, publicID); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}
