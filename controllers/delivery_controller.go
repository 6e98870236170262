package controllers

import (
	"epp-app/models"
	"epp-app/repositories"
	"epp-app/types"
	"time"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DeliveryController struct {
	DB *gorm.DB
}

func NewDeliveryController(DB *gorm.DB) *DeliveryController {
	return &DeliveryController{DB: DB}
}

type deliveryLineInput struct {
	ItemID   uint   `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Size     string `json:"size"`
}

func (c *DeliveryController) CreateDelivery(ctx *fiber.Ctx) error {

	var deliveryInput struct {
		EmployeeID   uint                `json:"employee_id" validate:"required"`
		DeliveryDate string              `json:"delivery_date"`
		Reason       string              `json:"reason"`
		Notes        string              `json:"notes"`
		Lines        []deliveryLineInput `json:"lines" validate:"required,min=1,dive"`
	}

	// Parse Body
	if err := ctx.BodyParser(&deliveryInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Validasi input menggunakan validator
	validate := validator.New()
	if err := validate.Struct(deliveryInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var deliveryDate time.Time
	if deliveryInput.DeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", deliveryInput.DeliveryDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid delivery_date, expected YYYY-MM-DD"})
		}
		deliveryDate = parsed
	}

	lines := make([]repositories.DeliveryLineInput, 0, len(deliveryInput.Lines))
	for _, line := range deliveryInput.Lines {
		lines = append(lines, repositories.DeliveryLineInput{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Size:     line.Size,
		})
	}

	deliveryRepo := repositories.NewDeliveryRepository(c.DB)
	header, err := deliveryRepo.CreateDelivery(repositories.CreateDeliveryInput{
		SiteID:       siteFromCtx(ctx),
		EmployeeID:   deliveryInput.EmployeeID,
		DeliveryDate: deliveryDate,
		Reason:       models.DeliveryReason(deliveryInput.Reason),
		Notes:        deliveryInput.Notes,
		Actor:        actorFromCtx(ctx),
		Lines:        lines,
	})
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Delivery created successfully", "data": header})
}

func (c *DeliveryController) GetDeliveries(ctx *fiber.Ctx) error {
	deliveryRepo := repositories.NewDeliveryRepository(c.DB)
	deliveries, err := deliveryRepo.ListDeliveries(siteFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"deliveries": deliveries}})
}

func (c *DeliveryController) GetDeliveryByID(ctx *fiber.Ctx) error {
	deliveryID, err := parseDeliveryID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	deliveryRepo := repositories.NewDeliveryRepository(c.DB)
	header, err := deliveryRepo.GetDelivery(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": header})
}

func (c *DeliveryController) CancelDelivery(ctx *fiber.Ctx) error {
	deliveryID, err := parseDeliveryID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	var cancelInput struct {
		Reason string `json:"reason" validate:"required,min=3"`
	}

	if err := ctx.BodyParser(&cancelInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(cancelInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deliveryRepo := repositories.NewDeliveryRepository(c.DB)
	header, err := deliveryRepo.Cancel(deliveryID, cancelInput.Reason, actorFromCtx(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Delivery cancelled", "data": header})
}

func (c *DeliveryController) RemoveLine(ctx *fiber.Ctx) error {
	deliveryID, err := parseDeliveryID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	var removeLineInput struct {
		LineID uint `json:"line_id" validate:"required"`
		ItemID uint `json:"item_id" validate:"required"`
	}

	if err := ctx.BodyParser(&removeLineInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(removeLineInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deliveryRepo := repositories.NewDeliveryRepository(c.DB)
	remaining, err := deliveryRepo.RemoveLine(deliveryID, removeLineInput.LineID, removeLineInput.ItemID, actorFromCtx(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Line removed",
		"data":    fiber.Map{"remaining_lines": remaining},
	})
}

// EraseDelivery menghapus dokumen permanen, termasuk yang sudah SIGNED.
// Pembatasan siapa yang boleh ada di layer otorisasi luar.
func (c *DeliveryController) EraseDelivery(ctx *fiber.Ctx) error {
	deliveryID, err := parseDeliveryID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	deliveryRepo := repositories.NewDeliveryRepository(c.DB)
	if err := deliveryRepo.Erase(deliveryID, actorFromCtx(ctx)); err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Delivery erased"})
}

func (c *DeliveryController) SignEmployee(ctx *fiber.Ctx) error {
	deliveryID, err := parseDeliveryID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	var signEmployeeInput struct {
		Signature string `json:"signature" validate:"required"`
	}

	if err := ctx.BodyParser(&signEmployeeInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(signEmployeeInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deliveryRepo := repositories.NewDeliveryRepository(c.DB)
	header, err := deliveryRepo.SignEmployee(deliveryID, signEmployeeInput.Signature, actorFromCtx(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Employee signature captured", "data": header})
}

func (c *DeliveryController) SignResponsible(ctx *fiber.Ctx) error {
	deliveryID, err := parseDeliveryID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	var signResponsibleInput struct {
		Signature string `json:"signature" validate:"required"`
		Name      string `json:"name" validate:"required,min=3"`
		Position  string `json:"position" validate:"required,min=2"`
	}

	if err := ctx.BodyParser(&signResponsibleInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(signResponsibleInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deliveryRepo := repositories.NewDeliveryRepository(c.DB)
	header, err := deliveryRepo.SignResponsible(deliveryID, signResponsibleInput.Signature,
		signResponsibleInput.Name, signResponsibleInput.Position, actorFromCtx(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Delivery signed", "data": header})
}

func parseDeliveryID(ctx *fiber.Ctx) (types.SnowflakeID, error) {
	var id types.SnowflakeID
	raw := `"` + ctx.Params("id") + `"`
	if err := id.UnmarshalJSON([]byte(raw)); err != nil {
		return 0, err
	}
	return id, nil
}
