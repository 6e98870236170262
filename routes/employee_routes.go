package routes

import (
	"epp-app/config"
	"epp-app/controllers"
	"epp-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupEmployeeRoutes(app *fiber.App, db *gorm.DB) {
	employeeController := controllers.NewEmployeeController(db)
	api := app.Group(config.MAIN_ROUTES+"/employees", middleware.AuthMiddleware)

	api.Get("/", employeeController.GetEmployees)
	api.Post("/", employeeController.CreateEmployee)
	api.Delete("/:id", employeeController.DeactivateEmployee)
}
