package models

import (
	"epp-app/controllers/idgen"
	"epp-app/types"
	"time"

	"gorm.io/gorm"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliverySigned    DeliveryStatus = "SIGNED"
	DeliveryCancelled DeliveryStatus = "CANCELLED"
)

// CanCancel: hanya delivery PENDING yang boleh dibatalkan.
func (s DeliveryStatus) CanCancel() bool { return s == DeliveryPending }

// CanSign: tanda tangan hanya boleh selama PENDING, SIGNED bersifat final.
func (s DeliveryStatus) CanSign() bool { return s == DeliveryPending }

// CanEditLines: baris hanya boleh diubah selama PENDING.
func (s DeliveryStatus) CanEditLines() bool { return s == DeliveryPending }

type DeliveryReason string

const (
	ReasonStandardIssue DeliveryReason = "STANDARD_ISSUE"
	ReasonRenewal       DeliveryReason = "RENEWAL"
	ReasonCorrection    DeliveryReason = "CORRECTION"
)

// DeliveryHeader adalah satu kejadian penyerahan EPP ke satu karyawan.
// Stok sudah dipotong sejak status PENDING; pembatalan mengembalikan stok.
type DeliveryHeader struct {
	ID           types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	DeliveryNo   string            `json:"delivery_no" gorm:"uniqueIndex"`
	SiteID       uint              `json:"site_id" gorm:"index"`
	EmployeeID   uint              `json:"employee_id" gorm:"index;not null"`
	DeliveryDate time.Time         `json:"delivery_date"`
	Reason       DeliveryReason    `json:"reason" gorm:"default:STANDARD_ISSUE"`
	Status       DeliveryStatus    `json:"status" gorm:"default:PENDING"`
	Notes        string            `json:"notes"`

	EmployeeSignature   string     `json:"employee_signature"`
	EmployeeSignedAt    *time.Time `json:"employee_signed_at"`
	ResponsibleName     string     `json:"responsible_name"`
	ResponsiblePosition string     `json:"responsible_position"`
	ResponsibleSign     string     `json:"responsible_signature"`
	ResponsibleSignedAt *time.Time `json:"responsible_signed_at"`

	Lines []DeliveryLine `json:"lines" gorm:"foreignKey:DeliveryID"`

	CreatedAt time.Time
	CreatedBy int
	UpdatedAt time.Time
	UpdatedBy int
}

func (d *DeliveryHeader) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == 0 {
		d.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type DeliveryLine struct {
	ID         uint              `json:"ID" gorm:"primaryKey"`
	DeliveryID types.SnowflakeID `json:"delivery_id" gorm:"index;not null"`
	ItemID     uint              `json:"item_id" gorm:"not null"`
	ItemCode   string            `json:"item_code"`
	Size       string            `json:"size"`
	Quantity   int               `json:"quantity" gorm:"not null"`
	CreatedAt  time.Time
	CreatedBy  int
}
