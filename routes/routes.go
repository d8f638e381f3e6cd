package routes

import (
	"barberbook-backend/config"
	"barberbook-backend/controllers"
	"barberbook-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public browsing endpoints
	r.GET("/establishments", controllers.GetEstablishments)
	r.GET("/establishments/:id", controllers.GetEstablishment)
	r.GET("/establishments/:id/services", func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: "establishmentId", Value: c.Param("id")})
		controllers.GetServices(c)
	})

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Establishment routes
		establishments := api.Group("/establishments")
		{
			establishments.POST("", controllers.CreateEstablishment)
			establishments.GET("/mine", controllers.GetMyEstablishments)
			establishments.PUT("/:id", controllers.UpdateEstablishment)
			establishments.DELETE("/:id", controllers.DeleteEstablishment)
			establishments.GET("/:id/reviews", func(c *gin.Context) {
				c.Params = append(c.Params, gin.Param{Key: "establishmentId", Value: c.Param("id")})
				controllers.GetEstablishmentReviews(c)
			})
		}

		// Service routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.GET("/available-slots/:establishmentId", controllers.GetAvailableSlots)
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetMyAppointments)
			appointments.GET("/my-establishment", controllers.GetEstablishmentAppointments)
			appointments.PATCH("/:id/cancel", controllers.CancelAppointment)
			appointments.PATCH("/:id/reschedule", controllers.RescheduleAppointment)
			appointments.PATCH("/:id/pay", controllers.ConfirmPayment)
		}

		// Plan and partnership routes
		plans := api.Group("/plans")
		{
			plans.POST("", controllers.CreatePlan)
			plans.GET("/marketplace", controllers.GetMarketplacePlans)
			plans.GET("/mine", controllers.GetMyPlans)
			plans.GET("/establishment/:establishmentId", controllers.GetEstablishmentPlans)
			plans.PUT("/:id", controllers.UpdatePlan)
			plans.DELETE("/:id", controllers.DeletePlan)
			plans.POST("/:id/benefits", controllers.AddPlanBenefit)
			plans.GET("/:id/benefits", controllers.GetPlanBenefits)
			plans.POST("/:id/join", controllers.JoinPlan)
			plans.DELETE("/:id/leave", controllers.LeavePlan)
			plans.GET("/:id/partners", controllers.GetPlanPartners)
		}

		// Subscription routes
		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.POST("", controllers.Subscribe)
			subscriptions.GET("", controllers.GetMySubscriptions)
			subscriptions.PATCH("/:id/cancel", controllers.CancelSubscription)
		}

		// Review routes
		api.POST("/reviews", controllers.CreateReview)

		// Profit report routes
		reportController := controllers.ReportController{}
		api.GET("/profit-reports", reportController.GetProfitReports)
		api.POST("/profit-reports/auto", reportController.GenerateProfitReport)
	}

	return r
}
