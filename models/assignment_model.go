package models

import (
	"epp-app/types"
	"time"

	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentActive  AssignmentStatus = "ACTIVE"
	AssignmentRenewed AssignmentStatus = "RENEWED"
)

// CanRenew: hanya assignment ACTIVE yang boleh diperbarui.
func (s AssignmentStatus) CanRenew() bool { return s == AssignmentActive }

// Assignment mencatat satu kepemilikan EPP aktif per karyawan.
// Invariant: maksimal satu ACTIVE per kombinasi (employee, item, size);
// renewal menandai yang lama RENEWED di transaksi yang sama dengan pembuatan
// yang baru.
type Assignment struct {
	gorm.Model
	EmployeeID   uint              `json:"employee_id" gorm:"index;not null"`
	ItemID       uint              `json:"item_id" gorm:"index;not null"`
	DeliveryID   types.SnowflakeID `json:"delivery_id" gorm:"index"`
	Quantity     int               `json:"quantity" gorm:"not null"`
	Size         string            `json:"size"`
	DeliveryDate time.Time         `json:"delivery_date"`
	RenewalDate  time.Time         `json:"renewal_date" gorm:"index"`
	Status       AssignmentStatus  `json:"status" gorm:"default:ACTIVE;index"`
	CreatedBy    int
	UpdatedBy    int
}
