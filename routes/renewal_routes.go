package routes

import (
	"epp-app/config"
	"epp-app/controllers"
	"epp-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRenewalRoutes(app *fiber.App, db *gorm.DB) {
	renewalController := controllers.NewRenewalController(db)
	api := app.Group(config.MAIN_ROUTES+"/renewals", middleware.AuthMiddleware)

	api.Get("/", renewalController.GetPendingRenewals)
	api.Get("/excel", renewalController.ExportExcel)
	api.Post("/", renewalController.RenewForEmployee)
}
