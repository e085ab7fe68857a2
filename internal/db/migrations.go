package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_name VARCHAR(255) NOT NULL,
		client_tax_id VARCHAR(14) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		items JSONB NOT NULL DEFAULT '[]',
		total_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		due_date DATE NOT NULL,
		city VARCHAR(128) NOT NULL DEFAULT '',
		display_location VARCHAR(255) NOT NULL DEFAULT '',
		responsible_admin VARCHAR(128) NOT NULL DEFAULT '',
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'contracts' AND column_name = 'display_location') THEN
			ALTER TABLE contracts ADD COLUMN display_location VARCHAR(255) NOT NULL DEFAULT '';
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'contracts' AND column_name = 'responsible_admin') THEN
			ALTER TABLE contracts ADD COLUMN responsible_admin VARCHAR(128) NOT NULL DEFAULT '';
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_due_date ON contracts (due_date);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_client_tax_id ON contracts (client_tax_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_is_paid ON contracts (is_paid);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
