package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

func GetCities(ctx iris.Context) {
	var cities []models.City
	if err := storage.DB.Find(&cities).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(cities)
}

func GetDistricts(ctx iris.Context) {
	cityID := ctx.Params().Get("id")

	var districts []models.District
	if err := storage.DB.Where("city_id = ?", cityID).Find(&districts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(districts)
}
