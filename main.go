package main

import (
	"fmt"
	"log"
	"os"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/routes"
	"barberbook-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Establishment{},
		&models.Service{},
		&models.Appointment{},
		&models.Plan{},
		&models.PlanPartnership{},
		&models.PlanBenefit{},
		&models.Subscription{},
		&models.Review{},
		&models.ProfitReport{},
	)

	// The store is the authority for slot exclusion: at most one live booking
	// per establishment and datetime, canceled rows excluded
	config.DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot
		ON appointments (establishment_id, scheduled_at)
		WHERE status <> 'canceled'`)
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	scheduler := services.NewBookingScheduler(config.DB)
	scheduler.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
