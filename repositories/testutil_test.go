package repositories

import (
	"epp-app/config"
	"epp-app/controllers/idgen"
	"epp-app/migration"
	"epp-app/models"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.LoadConfig()
	idgen.Init()

	// Satu database in-memory per test, shared cache supaya semua koneksi
	// pool melihat schema yang sama
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedItem membuat item dengan stok 0, lalu isi stok lewat jalur ledger
// supaya invariant replay tetap berlaku di semua test.
func seedItem(t *testing.T, db *gorm.DB, code string, stock, stockMin, usefulLifeMonths int) *models.InventoryItem {
	t.Helper()

	item := models.InventoryItem{
		SiteID:           1,
		ItemCode:         code,
		ItemName:         code,
		Category:         models.CategoryProtectiveGear,
		Uom:              "PCS",
		UsefulLifeMonths: usefulLifeMonths,
		StockMin:         stockMin,
		IsActive:         true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed item %s: %v", code, err)
	}

	if stock > 0 {
		stockRepo := NewStockRepository(db)
		if _, err := stockRepo.AdjustStock(AdjustStockParams{
			ItemID:   item.ID,
			Quantity: stock,
			Type:     models.MovementSupplyIn,
			Reason:   "initial supply",
			Actor:    1,
		}); err != nil {
			t.Fatalf("failed to supply stock for %s: %v", code, err)
		}
		item.CurrentStock = stock
	}

	return &item
}

func seedEmployee(t *testing.T, db *gorm.DB, code string) *models.Employee {
	t.Helper()

	employee := models.Employee{
		SiteID:       1,
		EmployeeCode: code,
		Name:         "Employee " + code,
		Position:     "Technician",
		IsActive:     true,
	}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatalf("failed to seed employee %s: %v", code, err)
	}

	return &employee
}

func currentStock(t *testing.T, db *gorm.DB, itemID uint) int {
	t.Helper()

	var item models.InventoryItem
	if err := db.First(&item, itemID).Error; err != nil {
		t.Fatalf("failed to reload item %d: %v", itemID, err)
	}
	return item.CurrentStock
}

func assertLedgerMatchesStock(t *testing.T, db *gorm.DB, itemID uint) {
	t.Helper()

	stockRepo := NewStockRepository(db)
	balance, err := stockRepo.ReplayBalance(itemID)
	if err != nil {
		t.Fatalf("failed to replay ledger for item %d: %v", itemID, err)
	}

	if stock := currentStock(t, db, itemID); balance != stock {
		t.Errorf("ledger replay = %d, projected stock = %d; must be equal", balance, stock)
	}
}
