package routes

import (
	"epp-app/config"
	"epp-app/controllers"
	"epp-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupStockRoutes(app *fiber.App, db *gorm.DB) {
	stockController := controllers.NewStockController(db)
	api := app.Group(config.MAIN_ROUTES+"/stock", middleware.AuthMiddleware)

	api.Post("/adjust", stockController.AdjustStock)
	api.Get("/low", stockController.GetLowStock)
	api.Get("/out", stockController.GetOutOfStock)
	api.Get("/excel", stockController.ExportExcel)
	api.Get("/:id/movements", stockController.GetMovements)
	api.Post("/:id/reconcile", stockController.Reconcile)
	api.Post("/:id/repair", stockController.Repair)
}
