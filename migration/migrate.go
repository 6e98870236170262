package migration

import (
	"epp-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginLog{},
		&models.Site{},
		&models.Employee{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.DeliveryHeader{},
		&models.DeliveryLine{},
		&models.Assignment{},
		&models.TransactionHistory{},
	)
}
