package persistence

import (
	"testing"

	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// setupTestDB opens an in-memory SQLite database and migrates the full
// schema. The models avoid postgres-only column features so the same models
// work here.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.AcademicSessionModel{},
		&models.StudentEnrollmentModel{},
		&models.FeeTypeModel{},
		&models.ClassFeeStructureModel{},
		&models.InstallmentModel{},
		&models.StudentFeeModel{},
		&models.StudentConcessionModel{},
		&models.CarryForwardDueModel{},
		&models.FeePaymentModel{},
		&models.PaymentAllocationModel{},
		&models.FeeReceiptModel{},
		&models.FeeRefundModel{},
		&models.LedgerEntryModel{},
	)
	require.NoError(t, err)

	return db
}
