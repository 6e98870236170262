package routes

import (
	"epp-app/config"
	"epp-app/controllers"
	"epp-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDeliveryRoutes(app *fiber.App, db *gorm.DB) {
	deliveryController := controllers.NewDeliveryController(db)
	api := app.Group(config.MAIN_ROUTES+"/deliveries", middleware.AuthMiddleware)

	api.Get("/", deliveryController.GetDeliveries)
	api.Post("/", deliveryController.CreateDelivery)
	api.Get("/:id", deliveryController.GetDeliveryByID)
	api.Post("/:id/cancel", deliveryController.CancelDelivery)
	api.Post("/:id/remove-line", deliveryController.RemoveLine)
	api.Delete("/:id", deliveryController.EraseDelivery)
	api.Post("/:id/sign-employee", deliveryController.SignEmployee)
	api.Post("/:id/sign-responsible", deliveryController.SignResponsible)
}
