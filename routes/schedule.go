package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

// GetUserSchedules returns the renter's booking history with the host's
// contact details and whether each stay has been rated.
func GetUserSchedules(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var schedules []models.Schedule
	res := storage.DB.
		Preload("Post").
		Preload("Post.User").
		Where("user_id = ?", id).
		Order("post_id ASC, from_date ASC").
		Find(&schedules)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	out := make([]iris.Map, 0, len(schedules))
	for _, s := range schedules {
		entry := iris.Map{
			"ID":       s.ID,
			"postID":   s.PostID,
			"fromDate": s.FromDate.Format(dateLayout),
			"toDate":   s.ToDate.Format(dateLayout),
			"score":    s.StayRating,
			"score1":   s.HostRating,
			"isRated":  s.StayRating != nil || s.HostRating != nil,
		}
		if s.Post != nil {
			entry["title"] = s.Post.Title
			entry["address"] = s.Post.Address
			if s.Post.User != nil {
				entry["fullNameHost"] = s.Post.User.FullName
				entry["phone"] = s.Post.User.PhoneNumber
			}
		}
		out = append(out, entry)
	}
	ctx.JSON(out)
}

// GetManagedSchedules returns upcoming reservations across all posts the
// user owns, for the host's calendar view.
func GetManagedSchedules(ctx iris.Context) {
	id := ctx.Params().Get("id")

	today := time.Now().Format(dateLayout)
	var schedules []models.Schedule
	res := storage.DB.
		Joins("JOIN posts ON posts.id = schedules.post_id").
		Where("posts.user_id = ? AND schedules.to_date >= ?", id, today).
		Preload("Post").
		Preload("User").
		Order("schedules.post_id ASC, schedules.from_date ASC").
		Find(&schedules)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	out := make([]iris.Map, 0, len(schedules))
	for _, s := range schedules {
		entry := iris.Map{
			"fromDate": s.FromDate.Format(dateLayout),
			"toDate":   s.ToDate.Format(dateLayout),
		}
		if s.User != nil {
			entry["fullName"] = s.User.FullName
			entry["phoneNumber"] = s.User.PhoneNumber
		}
		if s.Post != nil {
			entry["title"] = s.Post.Title
			entry["address"] = s.Post.Address
		}
		out = append(out, entry)
	}
	ctx.JSON(out)
}
