package models

import "gorm.io/gorm"

// Employee adalah master data karyawan penerima EPP. Identitas dan status
// aktif disuplai dari direktori karyawan; core hanya membaca.
type Employee struct {
	gorm.Model
	SiteID       uint   `json:"site_id" gorm:"index"`
	EmployeeCode string `json:"employee_code" gorm:"uniqueIndex;not null"`
	Name         string `json:"name" gorm:"not null"`
	Position     string `json:"position"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}

// Site adalah lokasi operasional tempat stok disimpan.
type Site struct {
	gorm.Model
	Code      string `json:"code" gorm:"uniqueIndex;not null"`
	Name      string `json:"name"`
	CreatedBy int
	UpdatedBy int
}
