package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/campuseats/campus-food-api/docs" // Import generated docs
	"github.com/campuseats/campus-food-api/internal/cart"
	"github.com/campuseats/campus-food-api/internal/config"
	"github.com/campuseats/campus-food-api/internal/controllers"
	"github.com/campuseats/campus-food-api/internal/database"
	"github.com/campuseats/campus-food-api/internal/middleware"
	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/services"
)

var (
	db                *gorm.DB
	admissionService  services.AdmissionService
	orderService      services.OrderService
	catalogService    services.CatalogService
	demandService     services.DemandService
	cartStore         *cart.Store
	orderController   controllers.OrderController
	catalogController controllers.CatalogController
	cartController    controllers.CartController
	demandController  controllers.DemandController
	configuration     *config.Config
)

// @title Campus Food API
// @version 1.0
// @description Campus food ordering with slot capacity admission and demand prediction
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Set JWT secret from configuration
	middleware.SetJWTSecret(configuration.JWTSecret)

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services and controllers
	admissionService = services.NewAdmissionService(db)
	orderService = services.NewOrderService(db, admissionService)
	catalogService = services.NewCatalogService(db, admissionService)
	demandService = services.NewDemandService(db, admissionService)
	cartStore = cart.NewStore()

	orderController = controllers.NewOrderController(orderService)
	catalogController = controllers.NewCatalogController(catalogService)
	cartController = controllers.NewCartController(cartStore, catalogService, orderService)
	demandController = controllers.NewDemandController(demandService)

	// Nightly demand aggregation
	scheduler := startDemandScheduler()
	defer scheduler.Stop()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection and seeds the
// reference data when the database is empty
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  "disable",
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	// Seed only if empty
	var count int64
	db.Model(&models.TimeSlot{}).Count(&count)
	if count == 0 {
		log.Info("Database is empty, seeding initial data")
		seedDatabase()
	} else {
		log.Info("Database already seeded with initial data")
	}
	return db
}

// seedDatabase seeds the break time slots and a starter menu
func seedDatabase() {
	slots := []models.TimeSlot{
		{Label: "10:00-10:30", SlotIndex: 1, MaxCapacity: 50},
		{Label: "12:00-12:30", SlotIndex: 2, MaxCapacity: 50},
		{Label: "13:00-13:30", SlotIndex: 3, MaxCapacity: 50},
		{Label: "15:00-15:30", SlotIndex: 4, MaxCapacity: 50},
		{Label: "17:00-17:30", SlotIndex: 5, MaxCapacity: 50},
	}
	for _, slot := range slots {
		db.Create(&slot)
	}

	stall := models.FoodStall{Name: "Block 32 Cafeteria", Location: "Block 32, Ground Floor", IsOpen: true}
	db.Create(&stall)

	items := []models.FoodItem{
		{StallID: stall.ID, Name: "Veg Thali", Price: 80.00, Category: models.CategoryLunch, IsAvailable: true, PreparationTime: 15},
		{StallID: stall.ID, Name: "Masala Dosa", Price: 45.00, Category: models.CategoryBreakfast, IsAvailable: true, PreparationTime: 10},
		{StallID: stall.ID, Name: "Samosa", Price: 15.00, Category: models.CategorySnacks, IsAvailable: true, PreparationTime: 5},
		{StallID: stall.ID, Name: "Cold Coffee", Price: 40.00, Category: models.CategoryBeverages, IsAvailable: true, PreparationTime: 5},
	}
	for _, item := range items {
		db.Create(&item)
	}
	log.Info("Database seeded successfully")
}

// startDemandScheduler runs the daily fold of today's orders into the
// demand records shortly before midnight
func startDemandScheduler() *cron.Cron {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(configuration.DemandRefreshSpec, func() {
		rows, err := demandService.RefreshDemandRecords(time.Now())
		if err != nil {
			log.WithError(err).Error("Demand record refresh failed")
			return
		}
		log.WithField("rows", rows).Info("Scheduled demand record refresh done")
	})
	checkPanicErr(err)
	scheduler.Start()
	log.WithField("spec", configuration.DemandRefreshSpec).Info("Demand scheduler started")
	return scheduler
}

// setupRouter initializes the Gin router and sets up the routes
func setupRouter() *gin.Engine {
	router := gin.Default()
	setupRoutes(router)
	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	v1 := router.Group("/api/v1")
	{
		publicApi := v1.Group("/public")
		{
			publicApi.GET("/stalls", catalogController.GetStalls)
			publicApi.GET("/stalls/:id/menu", catalogController.GetStallMenu)
			publicApi.GET("/slots", catalogController.GetSlots)
		}

		// Protected routes (requires JWT authentication)
		protectedApi := v1.Group("/protected")
		protectedApi.Use(middleware.JWTAuth())
		{
			protectedApi.GET("/cart", cartController.GetCart)
			protectedApi.POST("/cart/items", cartController.AddItem)
			protectedApi.DELETE("/cart/items/:id", cartController.RemoveItem)
			protectedApi.DELETE("/cart", cartController.ClearCart)
			protectedApi.POST("/cart/checkout", cartController.Checkout)

			protectedApi.POST("/orders", orderController.CreateOrder)
			protectedApi.GET("/orders", orderController.GetMyOrders)
			protectedApi.GET("/orders/:id", orderController.GetOrder)
			protectedApi.POST("/orders/:id/cancel", orderController.CancelOrder)

			staffApi := protectedApi.Group("/staff")
			staffApi.Use(middleware.RequireRole("staff"))
			{
				staffApi.PATCH("/orders/:id/status", orderController.UpdateStatus)
				staffApi.GET("/dashboard", demandController.GetDashboard)
				staffApi.GET("/demand/peak-times", demandController.GetPeakTimes)
				staffApi.GET("/demand/chart/:id", demandController.GetDemandChart)
				staffApi.POST("/demand/refresh", demandController.RefreshDemand)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "campus-food-api",
	})
}
