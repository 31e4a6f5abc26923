package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	orderControllers "github.com/Diana725/thriftify/controllers/order"
	paymentControllers "github.com/Diana725/thriftify/controllers/payment"
	"github.com/Diana725/thriftify/models"
	"github.com/Diana725/thriftify/notify"
	"github.com/Diana725/thriftify/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	expirePending := flag.Bool("expire-pending", false, "run the pending-order expiry sweep once and exit")
	flag.Parse()

	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Discount{},
		&models.DiscountUserLog{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// One-shot cron mode: cancel lapsed pending orders and exit
	if *expirePending {
		n, err := orderControllers.ExpirePendingOrders(db)
		if err != nil {
			log.Fatalf("❌ Expiry sweep failed: %v", err)
		}
		log.Printf("🧹 Expiry sweep cancelled %d stale pending orders", n)
		return
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Collaborators
	hub := orderControllers.NewHub()
	provider := paymentControllers.NewIntaSendClientFromEnv()
	notifier := notify.LogNotifier{}

	// Setup routes
	routes.SetupRoutes(r, db, hub, provider, notifier)

	// Sweep lapsed pending orders every minute
	orderControllers.StartExpirySweeper(db, time.Minute, make(chan struct{}))

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}
