package logging

import (
	"log/slog"
	"time"

	"github.com/vkopaniev/contacts-api/internal/models"
	"gorm.io/gorm"
)

const logRetention = 30 // days

// StartRetention runs a daily goroutine that prunes system_logs rows older
// than the retention window.
func StartRetention(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -logRetention)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("system log pruning failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("system logs pruned", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
