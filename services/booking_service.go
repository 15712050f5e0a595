package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hoainguyen219/guest-home-api/models"
	"github.com/hoainguyen219/guest-home-api/storage"
)

var (
	// ErrConflict signals a date overlap on booking, or a post delete
	// blocked by a schedule that has not ended yet.
	ErrConflict = errors.New("dates unavailable")
	// ErrNotFound signals a nonexistent post or schedule.
	ErrNotFound = errors.New("record not found")
	// ErrValidation signals malformed booking or rating input.
	ErrValidation = errors.New("invalid input")
)

const (
	MinRating = 1
	MaxRating = 5
)

// BookingService owns schedule admission and the post delete cascade.
// Both are check-then-write sequences, so both run inside a transaction
// that locks the parent post row first.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// Overlaps reports whether the inclusive date intervals
// [existingFrom, existingTo] and [candidateFrom, candidateTo] share at
// least one calendar day. Boundary touches count: a stay ending on the
// day another begins is a conflict (no same-day turnover).
func Overlaps(existingFrom, existingTo, candidateFrom, candidateTo time.Time) bool {
	if withinInclusive(candidateFrom, existingFrom, existingTo) {
		return true
	}
	if withinInclusive(candidateTo, existingFrom, existingTo) {
		return true
	}
	if withinInclusive(existingFrom, candidateFrom, candidateTo) &&
		withinInclusive(existingTo, candidateFrom, candidateTo) {
		return true
	}
	return false
}

// withinInclusive reports d in [from, to], comparing calendar days only.
func withinInclusive(d, from, to time.Time) bool {
	d = truncateToDate(d)
	return !d.Before(truncateToDate(from)) && !d.After(truncateToDate(to))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// lockForUpdate takes a row lock where the dialect has one. SQLite
// serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// FilterAvailable returns the posts whose loaded schedules are all free of
// conflict with [from, to]. A zero from/to disables date filtering.
func FilterAvailable(posts []models.Post, from, to time.Time) []models.Post {
	if from.IsZero() || to.IsZero() {
		return posts
	}
	available := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		conflict := false
		for _, schedule := range post.Schedules {
			if Overlaps(schedule.FromDate, schedule.ToDate, from, to) {
				conflict = true
				break
			}
		}
		if !conflict {
			available = append(available, post)
		}
	}
	return available
}

// AdmitBooking reserves [from, to] on a post for a renter. It loads every
// schedule of the post and scans them with Overlaps; any hit aborts with
// ErrConflict and writes nothing. The read and the insert share one
// transaction with the post row locked FOR UPDATE, so two admissions for
// the same post cannot both pass the scan.
func (s *BookingService) AdmitBooking(postID, userID uint, from, to time.Time) (uint, error) {
	if from.IsZero() || to.IsZero() || truncateToDate(from).After(truncateToDate(to)) {
		return 0, ErrValidation
	}

	var scheduleID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		res := lockForUpdate(tx).First(&post, postID)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if res.Error != nil {
			return res.Error
		}

		var schedules []models.Schedule
		if err := tx.Where("post_id = ?", postID).Find(&schedules).Error; err != nil {
			return err
		}
		for _, schedule := range schedules {
			if Overlaps(schedule.FromDate, schedule.ToDate, from, to) {
				return ErrConflict
			}
		}

		schedule := models.Schedule{
			PostID:   postID,
			UserID:   userID,
			FromDate: truncateToDate(from),
			ToDate:   truncateToDate(to),
		}
		if err := tx.Create(&schedule).Error; err != nil {
			return err
		}
		scheduleID = schedule.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return scheduleID, nil
}

// AttachRating stores the post-stay scores on an existing schedule.
// Either score may be nil; present scores must fall in [MinRating, MaxRating].
func (s *BookingService) AttachRating(scheduleID uint, stayRating, hostRating *int) error {
	if stayRating == nil && hostRating == nil {
		return ErrValidation
	}
	for _, r := range []*int{stayRating, hostRating} {
		if r != nil && (*r < MinRating || *r > MaxRating) {
			return ErrValidation
		}
	}

	var schedule models.Schedule
	res := s.db.First(&schedule, scheduleID)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if res.Error != nil {
		return res.Error
	}

	updates := map[string]interface{}{}
	if stayRating != nil {
		updates["stay_rating"] = *stayRating
	}
	if hostRating != nil {
		updates["host_rating"] = *hostRating
	}
	return s.db.Model(&schedule).Updates(updates).Error
}

// DeletePost removes a post with its images and schedules. The delete is
// refused with ErrConflict while any schedule ends today or later, and the
// whole cascade commits or rolls back as one transaction.
func (s *BookingService) DeletePost(postID uint, now time.Time) ([]string, error) {
	today := truncateToDate(now)

	var imageURLs []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		res := lockForUpdate(tx).First(&post, postID)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if res.Error != nil {
			return res.Error
		}

		var pending int64
		if err := tx.Model(&models.Schedule{}).
			Where("post_id = ? AND to_date >= ?", postID, today).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return ErrConflict
		}

		var images []models.Image
		if err := tx.Where("post_id = ?", postID).Find(&images).Error; err != nil {
			return err
		}
		for _, image := range images {
			imageURLs = append(imageURLs, image.URL)
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return nil, err
	}

	// Remote objects go after commit; a failed destroy only orphans a file.
	for _, url := range imageURLs {
		storage.DeleteImage(url)
	}
	return imageURLs, nil
}
