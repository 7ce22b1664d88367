package database

import (
	"fmt"

	"gorm.io/gorm"
)

// MigrateConstraints adds the postgres-only indexes the models cannot express
func MigrateConstraints(db *gorm.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		// capacity checks count seats per chart and status
		{"bookings chart/status index", `
			CREATE INDEX IF NOT EXISTS idx_bookings_chart_status
			ON bookings (chart_id, status);
		`},
		{"payouts date index", `
			CREATE INDEX IF NOT EXISTS idx_payment_rollouts_date
			ON payment_rollouts (date DESC, created_at DESC);
		`},
		{"approved vendors index", `
			CREATE INDEX IF NOT EXISTS idx_vendors_approved
			ON vendors (user_id) WHERE status = 'approved';
		`},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}
