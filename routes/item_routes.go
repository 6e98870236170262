package routes

import (
	"epp-app/config"
	"epp-app/controllers"
	"epp-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupItemRoutes(app *fiber.App, db *gorm.DB) {
	itemController := controllers.NewItemController(db)
	api := app.Group(config.MAIN_ROUTES+"/items", middleware.AuthMiddleware)

	api.Get("/", itemController.GetItems)
	api.Post("/", itemController.CreateItem)
	api.Get("/:id", itemController.GetItemByID)
	api.Put("/:id", itemController.UpdateItem)
	api.Delete("/:id", itemController.DeactivateItem)
}
