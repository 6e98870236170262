package main

import (
	"epp-app/config"
	"epp-app/controllers/idgen"
	"epp-app/database"
	"epp-app/migration"
	"epp-app/routes"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

func main() {

	app := fiber.New()

	config.LoadConfig()

	// Pastikan database ada
	database.EnsureDatabaseExists(config.DBName)

	// Connect to database
	db, err := database.GetDBConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate models
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	// Setup CORS middleware
	config.SetupCORS(app)

	// Setup routes
	routes.SetupAuthRoutes(app, db)
	routes.SetupItemRoutes(app, db)
	routes.SetupEmployeeRoutes(app, db)
	routes.SetupStockRoutes(app, db)
	routes.SetupDeliveryRoutes(app, db)
	routes.SetupRenewalRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("🚀 Server berjalan di port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}

}
