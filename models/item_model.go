package models

import (
	"gorm.io/gorm"
)

// Klasifikasi item yang bisa di-stock.
const (
	CategoryProtectiveGear = "EPP"
	CategoryUniform        = "UNIFORM"
	CategoryEmergencyKit   = "EMERGENCY"
)

// InventoryItem adalah proyeksi stok per item katalog di satu site.
// CurrentStock hanya boleh berubah lewat StockMovement (lihat repositories.AdjustStock),
// field lain boleh diedit langsung.
type InventoryItem struct {
	gorm.Model
	SiteID           uint    `json:"site_id" gorm:"index"`
	ItemCode         string  `json:"item_code" gorm:"uniqueIndex;not null"`
	ItemName         string  `json:"item_name" gorm:"not null"`
	Category         string  `json:"category"`
	Uom              string  `json:"uom"`
	Size             string  `json:"size"`
	UsefulLifeMonths int     `json:"useful_life_months" gorm:"default:12"`
	CurrentStock     int     `json:"current_stock" gorm:"default:0"`
	StockMin         int     `json:"stock_min" gorm:"default:0"`
	StockMax         int     `json:"stock_max" gorm:"default:0"`
	UnitPrice        float64 `json:"unit_price" gorm:"default:0"`
	IsActive         bool    `json:"is_active" gorm:"default:true"`
	IsFrozen         bool    `json:"is_frozen" gorm:"default:false"`
	CreatedBy        int
	UpdatedBy        int
	DeletedBy        int
}
