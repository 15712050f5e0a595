package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

// AdminListPendingPosts returns draft posts awaiting moderation.
func AdminListPendingPosts(ctx iris.Context) {
	var posts []models.Post
	res := storage.DB.Preload("Images").
		Where("status = ?", models.PostStatusDraft).
		Order("id ASC").
		Find(&posts)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(posts)
}

// AdminApprovePost publishes a draft post.
func AdminApprovePost(ctx iris.Context) {
	id := ctx.Params().Get("id")

	res := storage.DB.Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", models.PostStatusPublished)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(iris.Map{"postID": id})
}

type cityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// AdminStats reports the total post count and per-city counts, largest
// cities first.
func AdminStats(ctx iris.Context) {
	var total int64
	if err := storage.DB.Model(&models.Post{}).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var cities []cityCount
	res := storage.DB.Model(&models.Post{}).
		Select("city, COUNT(*) AS count").
		Group("city").
		Order("count DESC").
		Scan(&cities)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"totalPost": total,
		"cities":    cities,
	})
}
