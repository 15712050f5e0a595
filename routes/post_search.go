package routes

import (
	"sort"
	"strings"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/services"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

const dateLayout = "2006-01-02"

// SearchPosts lists published posts matching the query filters. Filters
// AND-combine: area and price ranges, city, district, an availability date
// range, and a geo radius. With lat+lng+distance present the results come
// back ordered by ascending great-circle distance. Each entry carries the
// post together with its review counts and average scores.
func SearchPosts(ctx iris.Context) {
	q := storage.DB.Model(&models.Post{}).
		Preload("Images").
		Preload("Schedules").
		Where("status = ?", models.PostStatusPublished)

	if minArea, err := ctx.URLParamFloat64("minArea"); err == nil && minArea > 0 {
		q = q.Where("area >= ?", minArea)
	}
	if maxArea, err := ctx.URLParamFloat64("maxArea"); err == nil && maxArea > 0 {
		q = q.Where("area <= ?", maxArea)
	}
	if minPrice, err := ctx.URLParamFloat64("minPrice"); err == nil && minPrice > 0 {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamFloat64("maxPrice"); err == nil && maxPrice > 0 {
		q = q.Where("price <= ?", maxPrice)
	}
	if city := strings.TrimSpace(ctx.URLParam("city")); city != "" {
		q = q.Where("LOWER(city) = LOWER(?)", city)
	}
	if district := strings.TrimSpace(ctx.URLParam("district")); district != "" {
		q = q.Where("LOWER(district) = LOWER(?)", district)
	}

	q = q.Order("id ASC")

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Availability: a post passes only when no schedule conflicts with the
	// requested range. Filtering over the preloaded schedules keeps one row
	// per post no matter how many reservations it has.
	fromDate, fromErr := time.Parse(dateLayout, ctx.URLParam("fromDate"))
	toDate, toErr := time.Parse(dateLayout, ctx.URLParam("toDate"))
	if ctx.URLParam("fromDate") != "" || ctx.URLParam("toDate") != "" {
		if fromErr != nil || toErr != nil || fromDate.After(toDate) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"fromDate and toDate must both be YYYY-MM-DD with fromDate <= toDate", ctx)
			return
		}
		posts = services.FilterAvailable(posts, fromDate, toDate)
	}

	lat, latErr := ctx.URLParamFloat64("lat")
	lng, lngErr := ctx.URLParamFloat64("lng")
	distance, distErr := ctx.URLParamFloat64("distance")
	if latErr == nil && lngErr == nil && distErr == nil {
		posts = filterByDistance(posts, lat, lng, distance)
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

// filterByDistance keeps posts within radiusKm of (lat, lng), ordered by
// ascending computed distance.
func filterByDistance(posts []models.Post, lat, lng, radiusKm float64) []models.Post {
	type postDistance struct {
		post models.Post
		km   float64
	}
	within := make([]postDistance, 0, len(posts))
	for _, post := range posts {
		km := services.CalculateDistance(lat, lng, post.Lat, post.Lng)
		if km <= radiusKm {
			within = append(within, postDistance{post: post, km: km})
		}
	}
	sort.SliceStable(within, func(i, j int) bool { return within[i].km < within[j].km })

	out := make([]models.Post, 0, len(within))
	for _, pd := range within {
		out = append(out, pd.post)
	}
	return out
}
