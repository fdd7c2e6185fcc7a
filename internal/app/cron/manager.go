package cron

import (
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Manager owns the scheduled maintenance jobs.
type Manager struct {
	cron *cron.Cron
	db   *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		cron: cron.New(),
		db:   db,
	}
}

// Start registers every job and launches the scheduler.
func (m *Manager) Start() error {
	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()
	log.Println("Cron jobs started")
	return nil
}

func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

func (m *Manager) registerJobs() error {
	// Hourly: retire coupons whose validity window has closed.
	if _, err := m.cron.AddFunc("@hourly", func() {
		if err := m.DeactivateExpiredCoupons(); err != nil {
			log.Printf("[CRON] deactivate_expired_coupons: %v", err)
		}
	}); err != nil {
		return err
	}

	// Daily at 3 AM: flag enrollments whose course is fully completed.
	if _, err := m.cron.AddFunc("0 3 * * *", func() {
		if err := m.CompleteFinishedEnrollments(); err != nil {
			log.Printf("[CRON] complete_finished_enrollments: %v", err)
		}
	}); err != nil {
		return err
	}

	// Daily at 4 AM: drop verification tokens past their expiry.
	if _, err := m.cron.AddFunc("0 4 * * *", func() {
		if err := m.PurgeExpiredTokens(); err != nil {
			log.Printf("[CRON] purge_expired_tokens: %v", err)
		}
	}); err != nil {
		return err
	}

	return nil
}
