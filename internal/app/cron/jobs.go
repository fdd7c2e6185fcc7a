package cron

import (
	"log"
	"time"

	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/enrollment"
	"eduplus-app/internal/domain/users"
)

// DeactivateExpiredCoupons retires every active coupon whose validity window
// has closed. Expired codes stay in the table for reporting.
func (m *Manager) DeactivateExpiredCoupons() error {
	res := m.db.Model(&billing.Coupon{}).
		Where("is_active = ? AND valid_until IS NOT NULL AND valid_until < ?", true, time.Now()).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[CRON] deactivated %d expired coupons", res.RowsAffected)
	}
	return nil
}

// CompleteFinishedEnrollments flags enrollments where the student has finished
// every lesson of the course.
func (m *Manager) CompleteFinishedEnrollments() error {
	var open []enrollment.Enrollment
	if err := m.db.Where("active = ? AND completed = ?", true, false).Find(&open).Error; err != nil {
		return err
	}

	completed := 0
	for _, e := range open {
		percent, err := enrollment.ProgressPercent(m.db, e.StudentID, e.CourseID)
		if err != nil {
			log.Printf("[CRON] progress check for enrollment %d: %v", e.ID, err)
			continue
		}
		if percent < 100 {
			continue
		}
		if err := m.db.Model(&enrollment.Enrollment{}).
			Where("id = ?", e.ID).
			Update("completed", true).Error; err != nil {
			log.Printf("[CRON] completing enrollment %d: %v", e.ID, err)
			continue
		}
		completed++
	}
	if completed > 0 {
		log.Printf("[CRON] marked %d enrollments completed", completed)
	}
	return nil
}

// PurgeExpiredTokens deletes verification and reset tokens past their expiry.
func (m *Manager) PurgeExpiredTokens() error {
	res := m.db.Where("expires_at < ?", time.Now()).Delete(&users.VerificationToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[CRON] purged %d expired tokens", res.RowsAffected)
	}
	return nil
}
