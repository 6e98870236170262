package controllers

import (
	"epp-app/apperrors"
	"epp-app/models"
	"epp-app/repositories"
	"epp-app/utils"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type StockController struct {
	DB *gorm.DB
}

func NewStockController(DB *gorm.DB) *StockController {
	return &StockController{DB: DB}
}

// AdjustStock menerima quantity selalu positif; arah ditentukan tipe
// movement. SUPPLY_IN / CORRECTION_IN menambah, DELIVERY_OUT lewat endpoint
// delivery, bukan dari sini.
func (c *StockController) AdjustStock(ctx *fiber.Ctx) error {

	var adjustStockInput struct {
		ItemID   uint   `json:"item_id" validate:"required"`
		Quantity int    `json:"quantity" validate:"required,min=1"`
		Type     string `json:"type" validate:"required"`
		Reason   string `json:"reason" validate:"required,min=3"`
	}

	// Parse Body
	if err := ctx.BodyParser(&adjustStockInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Validasi input menggunakan validator
	validate := validator.New()
	if err := validate.Struct(adjustStockInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	movementType := models.MovementType(adjustStockInput.Type)
	if !movementType.Valid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown movement type: " + adjustStockInput.Type})
	}

	quantity := adjustStockInput.Quantity
	if movementType.IsOutbound() {
		quantity = -quantity
	}

	stockRepo := repositories.NewStockRepository(c.DB)
	movement, err := stockRepo.AdjustStock(repositories.AdjustStockParams{
		ItemID:   adjustStockInput.ItemID,
		Quantity: quantity,
		Type:     movementType,
		Reason:   adjustStockInput.Reason,
		Actor:    actorFromCtx(ctx),
	})
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Stock adjusted", "data": movement})
}

func (c *StockController) GetLowStock(ctx *fiber.Ctx) error {
	stockRepo := repositories.NewStockRepository(c.DB)
	items, err := stockRepo.LowStockItems(siteFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"items": items}})
}

func (c *StockController) GetOutOfStock(ctx *fiber.Ctx) error {
	stockRepo := repositories.NewStockRepository(c.DB)
	items, err := stockRepo.OutOfStockItems(siteFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"items": items}})
}

func (c *StockController) GetMovements(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	stockRepo := repositories.NewStockRepository(c.DB)
	movements, err := stockRepo.MovementHistory(uint(itemID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"movements": movements}})
}

// Reconcile membandingkan replay ledger dengan proyeksi. Mismatch membekukan
// item dan dieskalasi ke operator lewat email, tidak pernah ditelan diam-diam.
func (c *StockController) Reconcile(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	stockRepo := repositories.NewStockRepository(c.DB)
	if err := stockRepo.Reconcile(uint(itemID), actorFromCtx(ctx)); err != nil {
		var violation *apperrors.ConsistencyViolationError
		if errors.As(err, &violation) {
			utils.SendConsistencyAlert(violation.ItemCode, violation.LedgerBalance, violation.CurrentStock)
		}
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Ledger and stock are consistent"})
}

// Repair membangun ulang stok dari ledger dan membuka bekuan item.
func (c *StockController) Repair(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	stockRepo := repositories.NewStockRepository(c.DB)
	item, err := stockRepo.Repair(uint(itemID), actorFromCtx(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock rebuilt from ledger", "data": item})
}

// Handler untuk generate dan kirim file Excel
func (c *StockController) ExportExcel(ctx *fiber.Ctx) error {

	var items []models.InventoryItem
	if err := c.DB.Where("site_id = ?", siteFromCtx(ctx)).Order("item_code ASC").Find(&items).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	// Buat file Excel baru
	f := excelize.NewFile()
	sheet := "Sheet1"

	// Buat header
	f.SetCellValue(sheet, "A1", "Item Code")
	f.SetCellValue(sheet, "B1", "Item Name")
	f.SetCellValue(sheet, "C1", "Category")
	f.SetCellValue(sheet, "D1", "Uom")
	f.SetCellValue(sheet, "E1", "Current Stock")
	f.SetCellValue(sheet, "F1", "Stock Min")
	f.SetCellValue(sheet, "G1", "Stock Max")
	f.SetCellValue(sheet, "H1", "Frozen")

	// Isi data ke dalam sheet
	for i, item := range items {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), item.ItemCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), item.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), item.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), item.Uom)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), item.CurrentStock)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), item.StockMin)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), item.StockMax)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", i+2), item.IsFrozen)
	}

	// Simpan file ke dalam response
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="stock_report.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Gagal generate Excel")
	}

	return nil
}
