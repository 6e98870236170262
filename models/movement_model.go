package models

import (
	"epp-app/controllers/idgen"
	"epp-app/types"
	"time"

	"gorm.io/gorm"
)

type MovementType string

const (
	MovementSupplyIn     MovementType = "SUPPLY_IN"
	MovementDeliveryOut  MovementType = "DELIVERY_OUT"
	MovementRenewalOut   MovementType = "RENEWAL_OUT"
	MovementReturnIn     MovementType = "RETURN_IN"
	MovementCorrectionIn MovementType = "CORRECTION_IN"
)

// IsOutbound menentukan arah: tipe *_OUT mengurangi stok, sisanya menambah.
func (m MovementType) IsOutbound() bool {
	return m == MovementDeliveryOut || m == MovementRenewalOut
}

func (m MovementType) Valid() bool {
	switch m {
	case MovementSupplyIn, MovementDeliveryOut, MovementRenewalOut, MovementReturnIn, MovementCorrectionIn:
		return true
	}
	return false
}

// Jenis dokumen yang bisa jadi referensi movement.
const (
	RefTypeDelivery = "DELIVERY"
)

// StockMovement adalah ledger stok: append-only, tidak pernah di-update atau
// di-delete. Koreksi selalu berupa entry baru dengan arah berlawanan.
type StockMovement struct {
	ID          types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	ItemID      uint              `json:"item_id" gorm:"index;not null"`
	Type        MovementType      `json:"type" gorm:"not null"`
	Quantity    int               `json:"quantity" gorm:"not null"`
	StockBefore int               `json:"stock_before"`
	StockAfter  int               `json:"stock_after"`
	Reason      string            `json:"reason"`
	RefType     string            `json:"ref_type"`
	RefID       types.SnowflakeID `json:"ref_id" gorm:"default:null"`
	CreatedAt   time.Time
	CreatedBy   int
}

// SignedQuantity mengembalikan delta bertanda sesuai arah movement.
func (m *StockMovement) SignedQuantity() int {
	if m.Type.IsOutbound() {
		return -m.Quantity
	}
	return m.Quantity
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == 0 {
		m.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
