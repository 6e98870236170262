package database

import (
	"epp-app/models"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedSite(db)
	SeedUserMaster(db)
	SeedItems(db)
	SeedEmployees(db)
}

func SeedSite(db *gorm.DB) {
	site := models.Site{
		Code: "HQ",
		Name: "Head Office",
	}

	var existing models.Site
	err := db.Where("code = ?", site.Code).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&site).Error; err != nil {
				log.Fatalf("Failed to create site: %v", err)
			}
		} else {
			log.Fatalf("Unexpected DB error: %v", err)
		}
	}
}

func SeedUserMaster(db *gorm.DB) {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Unexpected DB error: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var site models.Site
	db.Where("code = ?", "HQ").First(&site)

	user := models.User{
		Username: "admin",
		Password: string(hashed),
		Name:     "Administrator",
		Email:    "admin@localhost",
		Role:     "admin",
		SiteID:   site.ID,
	}

	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
}

func SeedItems(db *gorm.DB) {
	var count int64
	db.Model(&models.InventoryItem{}).Count(&count)
	if count > 0 {
		return
	}

	var site models.Site
	db.Where("code = ?", "HQ").First(&site)

	items := []models.InventoryItem{
		{
			SiteID:           site.ID,
			ItemCode:         "EPP-HELMET",
			ItemName:         "Safety Helmet",
			Category:         models.CategoryProtectiveGear,
			Uom:              "PCS",
			UsefulLifeMonths: 24,
			StockMin:         5,
			StockMax:         50,
			IsActive:         true,
		},
		{
			SiteID:           site.ID,
			ItemCode:         "EPP-GLOVES",
			ItemName:         "Work Gloves",
			Category:         models.CategoryProtectiveGear,
			Uom:              "PAIR",
			UsefulLifeMonths: 6,
			StockMin:         10,
			StockMax:         100,
			IsActive:         true,
		},
		{
			SiteID:           site.ID,
			ItemCode:         "UNI-SHIRT",
			ItemName:         "Uniform Shirt",
			Category:         models.CategoryUniform,
			Uom:              "PCS",
			Size:             "L",
			UsefulLifeMonths: 12,
			StockMin:         10,
			StockMax:         200,
			IsActive:         true,
		},
		{
			SiteID:           site.ID,
			ItemCode:         "EMG-KIT",
			ItemName:         "First Aid Kit",
			Category:         models.CategoryEmergencyKit,
			Uom:              "SET",
			UsefulLifeMonths: 36,
			StockMin:         2,
			StockMax:         20,
			IsActive:         true,
		},
	}

	for _, item := range items {
		if err := db.Create(&item).Error; err != nil {
			log.Fatalf("Failed to seed item %s: %v", item.ItemCode, err)
		}
	}
}

func SeedEmployees(db *gorm.DB) {
	var count int64
	db.Model(&models.Employee{}).Count(&count)
	if count > 0 {
		return
	}

	var site models.Site
	db.Where("code = ?", "HQ").First(&site)

	employees := []models.Employee{
		{SiteID: site.ID, EmployeeCode: "EMP-0001", Name: "Budi Santoso", Position: "Technician", IsActive: true},
		{SiteID: site.ID, EmployeeCode: "EMP-0002", Name: "Siti Rahayu", Position: "Operator", IsActive: true},
	}

	for _, employee := range employees {
		if err := db.Create(&employee).Error; err != nil {
			log.Fatalf("Failed to seed employee %s: %v", employee.EmployeeCode, err)
		}
	}
}
