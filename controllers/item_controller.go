package controllers

import (
	"epp-app/models"
	"epp-app/repositories"
	"errors"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ItemController struct {
	DB *gorm.DB
}

func NewItemController(DB *gorm.DB) *ItemController {
	return &ItemController{DB: DB}
}

// CreateItem mendaftarkan item baru ke inventory. Useful life, uom dan harga
// datang dari katalog master saat provisioning. Stok awal selalu 0; stok
// masuk lewat movement SUPPLY_IN, bukan lewat field edit.
func (c *ItemController) CreateItem(ctx *fiber.Ctx) error {

	var itemInput struct {
		ItemCode         string  `json:"item_code" validate:"required,min=3"`
		ItemName         string  `json:"item_name" validate:"required,min=3"`
		Category         string  `json:"category" validate:"required"`
		Uom              string  `json:"uom" validate:"required"`
		Size             string  `json:"size"`
		UsefulLifeMonths int     `json:"useful_life_months" validate:"required,min=1"`
		StockMin         int     `json:"stock_min" validate:"min=0"`
		StockMax         int     `json:"stock_max" validate:"min=0"`
		UnitPrice        float64 `json:"unit_price"`
	}

	// Parse Body
	if err := ctx.BodyParser(&itemInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Validasi input menggunakan validator
	validate := validator.New()
	if err := validate.Struct(itemInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item := models.InventoryItem{
		SiteID:           siteFromCtx(ctx),
		ItemCode:         itemInput.ItemCode,
		ItemName:         itemInput.ItemName,
		Category:         itemInput.Category,
		Uom:              itemInput.Uom,
		Size:             itemInput.Size,
		UsefulLifeMonths: itemInput.UsefulLifeMonths,
		StockMin:         itemInput.StockMin,
		StockMax:         itemInput.StockMax,
		UnitPrice:        itemInput.UnitPrice,
		IsActive:         true,
		CreatedBy:        actorFromCtx(ctx),
	}

	if err := c.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Item created successfully", "data": item})
}

func (c *ItemController) GetItems(ctx *fiber.Ctx) error {
	var items []models.InventoryItem
	if err := c.DB.Where("site_id = ?", siteFromCtx(ctx)).Order("item_code ASC").Find(&items).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"items": items}})
}

func (c *ItemController) GetItemByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	stockRepo := repositories.NewStockRepository(c.DB)
	item, err := stockRepo.GetItem(uint(id))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateItem mengubah nama, threshold dan harga. CurrentStock sengaja tidak
// bisa diedit dari sini; satu-satunya jalur mutasi stok adalah AdjustStock.
func (c *ItemController) UpdateItem(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var itemUpdateInput struct {
		ItemName  string  `json:"item_name" validate:"required,min=3"`
		StockMin  int     `json:"stock_min" validate:"min=0"`
		StockMax  int     `json:"stock_max" validate:"min=0"`
		UnitPrice float64 `json:"unit_price"`
	}

	if err := ctx.BodyParser(&itemUpdateInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(itemUpdateInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var item models.InventoryItem
	if err := c.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Model(&item).Updates(map[string]interface{}{
		"item_name":  itemUpdateInput.ItemName,
		"stock_min":  itemUpdateInput.StockMin,
		"stock_max":  itemUpdateInput.StockMax,
		"unit_price": itemUpdateInput.UnitPrice,
		"updated_by": actorFromCtx(ctx),
	}).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item updated successfully", "data": item})
}

// DeactivateItem: soft flag saja, item tidak pernah dihapus selama masih
// direferensikan history.
func (c *ItemController) DeactivateItem(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var item models.InventoryItem
	if err := c.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Model(&item).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_by": actorFromCtx(ctx),
	}).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item deactivated"})
}
