package routes

import (
	"errors"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/services"
	"github.com/hoainguyen219/guest-home-api/storage"
	"github.com/hoainguyen219/guest-home-api/utils"
)

type CreateBookingInput struct {
	FromDate string `json:"fromDate" validate:"required"`
	ToDate   string `json:"toDate" validate:"required"`
}

// CreateBooking admits a reservation for the authenticated renter. The
// overlap check and insert happen inside the booking service transaction;
// a conflicting range reports 409 and writes nothing.
func CreateBooking(ctx iris.Context) {
	postID, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid post id", ctx)
		return
	}
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	fromDate, fromErr := time.Parse(dateLayout, input.FromDate)
	toDate, toErr := time.Parse(dateLayout, input.ToDate)
	if fromErr != nil || toErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"fromDate and toDate must be YYYY-MM-DD", ctx)
		return
	}

	booking := services.NewBookingService(storage.DB)
	scheduleID, admitErr := booking.AdmitBooking(uint(postID), claims.ID, fromDate, toDate)
	if admitErr != nil {
		switch {
		case errors.Is(admitErr, services.ErrConflict):
			utils.CreateError(iris.StatusConflict, "Conflict",
				"The requested dates are unavailable.", ctx)
		case errors.Is(admitErr, services.ErrNotFound):
			utils.CreateNotFound(ctx)
		case errors.Is(admitErr, services.ErrValidation):
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"fromDate must not be after toDate", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.JSON(iris.Map{
		"scheduleID": scheduleID,
		"postID":     postID,
		"fromDate":   fromDate.Format(dateLayout),
		"toDate":     toDate.Format(dateLayout),
	})
}

// GetPostSchedule lists a post's reserved ranges that have not ended yet.
func GetPostSchedule(ctx iris.Context) {
	id := ctx.Params().Get("id")

	today := time.Now().Format(dateLayout)
	var schedules []models.Schedule
	res := storage.DB.
		Where("post_id = ? AND to_date >= ?", id, today).
		Order("from_date ASC").
		Find(&schedules)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	out := make([]iris.Map, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, iris.Map{
			"fromDate": s.FromDate.Format(dateLayout),
			"toDate":   s.ToDate.Format(dateLayout),
		})
	}
	ctx.JSON(out)
}

type AttachRatingInput struct {
	Score  *int `json:"score"`
	Score1 *int `json:"score1"`
}

// AttachRating stores post-stay scores on the renter's own schedule.
// Score rates the stay, score1 the counterparty; both 1..5.
func AttachRating(ctx iris.Context) {
	scheduleID, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid schedule id", ctx)
		return
	}
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input AttachRatingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var schedule models.Schedule
	if storage.DB.Find(&schedule, scheduleID).RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	if schedule.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	booking := services.NewBookingService(storage.DB)
	if err := booking.AttachRating(uint(scheduleID), input.Score, input.Score1); err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"scores must be integers between 1 and 5", ctx)
		case errors.Is(err, services.ErrNotFound):
			utils.CreateNotFound(ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.JSON(iris.Map{"scheduleID": scheduleID})
}
