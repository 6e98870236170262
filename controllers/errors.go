package controllers

import (
	"epp-app/apperrors"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// respondError memetakan error taxonomy ke status HTTP. Pesan error sudah
// dalam bahasa operator (item, jumlah, status), bukan error storage mentah.
func respondError(ctx *fiber.Ctx, err error) error {
	var notFound *apperrors.NotFoundError
	var invalidState *apperrors.InvalidStateError
	var insufficient *apperrors.InsufficientStockError
	var inconsistent *apperrors.ConsistencyViolationError

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
	case errors.As(err, &invalidState):
		status = fiber.StatusConflict
	case errors.As(err, &insufficient):
		status = fiber.StatusConflict
	case errors.As(err, &inconsistent):
		status = fiber.StatusInternalServerError
	}

	return ctx.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}

func actorFromCtx(ctx *fiber.Ctx) int {
	if userID, ok := ctx.Locals("userID").(float64); ok {
		return int(userID)
	}
	return 0
}

func siteFromCtx(ctx *fiber.Ctx) uint {
	if siteID, ok := ctx.Locals("siteID").(float64); ok {
		return uint(siteID)
	}
	return 0
}
