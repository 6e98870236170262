package controllers

import (
	"epp-app/config"
	"epp-app/repositories"
	"fmt"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type RenewalController struct {
	DB *gorm.DB
}

func NewRenewalController(DB *gorm.DB) *RenewalController {
	return &RenewalController{DB: DB}
}

func (c *RenewalController) GetPendingRenewals(ctx *fiber.Ctx) error {
	horizonDays := ctx.QueryInt("horizon_days", config.RenewalHorizonDays)

	renewalRepo := repositories.NewRenewalRepository(c.DB)
	pending, err := renewalRepo.ListPendingRenewals(siteFromCtx(ctx), horizonDays)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"renewals": pending}})
}

// RenewForEmployee membuat delivery renewal untuk assignment terpilih.
// Dokumen lahir PENDING; batch baru selesai setelah workflow tanda tangan
// menutupnya jadi SIGNED.
func (c *RenewalController) RenewForEmployee(ctx *fiber.Ctx) error {

	var renewInput struct {
		EmployeeID    uint   `json:"employee_id" validate:"required"`
		AssignmentIDs []uint `json:"assignment_ids" validate:"required,min=1"`
	}

	// Parse Body
	if err := ctx.BodyParser(&renewInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Validasi input menggunakan validator
	validate := validator.New()
	if err := validate.Struct(renewInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	renewalRepo := repositories.NewRenewalRepository(c.DB)
	header, err := renewalRepo.RenewForEmployee(renewInput.EmployeeID, renewInput.AssignmentIDs, actorFromCtx(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Renewal delivery created", "data": header})
}

// Handler untuk generate dan kirim file Excel
func (c *RenewalController) ExportExcel(ctx *fiber.Ctx) error {
	horizonDays := ctx.QueryInt("horizon_days", config.RenewalHorizonDays)

	renewalRepo := repositories.NewRenewalRepository(c.DB)
	pending, err := renewalRepo.ListPendingRenewals(siteFromCtx(ctx), horizonDays)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	// Buat file Excel baru
	f := excelize.NewFile()
	sheet := "Sheet1"

	// Buat header
	f.SetCellValue(sheet, "A1", "Employee Code")
	f.SetCellValue(sheet, "B1", "Employee Name")
	f.SetCellValue(sheet, "C1", "Item Code")
	f.SetCellValue(sheet, "D1", "Item Name")
	f.SetCellValue(sheet, "E1", "Size")
	f.SetCellValue(sheet, "F1", "Quantity")
	f.SetCellValue(sheet, "G1", "Renewal Date")
	f.SetCellValue(sheet, "H1", "Days Remaining")
	f.SetCellValue(sheet, "I1", "Urgency")

	// Isi data ke dalam sheet
	for i, row := range pending {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.EmployeeCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.EmployeeName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), row.ItemCode)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), row.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), row.Size)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), row.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), row.RenewalDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", i+2), row.DaysRemaining)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", i+2), row.Urgency)
	}

	// Simpan file ke dalam response
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="pending_renewals.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Gagal generate Excel")
	}

	return nil
}
