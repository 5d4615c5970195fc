package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shoptalk/backend/internal/api/handler"
	"shoptalk/backend/internal/inbox"
	"shoptalk/backend/internal/inboxhub"
	"shoptalk/backend/internal/models"
	"shoptalk/backend/internal/storage"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Admin{},
		&models.ChatRoom{},
		&models.UserMapping{},
		&models.ChatParticipant{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting ShopTalk Chat Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	// 1. Dependencies
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// 2. Inbox core and realtime hub
	inboxSvc := inbox.NewService(s, s)
	hub := inboxhub.NewManagerService(s)

	// 3. Background goroutines
	go hub.Run()
	hub.StartPubSubListener()

	// 4. Gin routing
	r := gin.Default()
	h := handler.NewHandler(inboxSvc, s, hub, []byte(jwtSecret))

	r.GET("/api/token", h.GetToken)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api", h.RequireParticipant)
	{
		api.GET("/chats", h.ListChats)
		api.GET("/chats/:id/participants", h.ListChatParticipants)
		api.PUT("/chats/:id/pin", h.PinChat)
		api.PUT("/chats/:id/notify", h.NotifyChat)
		api.PUT("/chats/:id/read", h.ReadChat)
		api.POST("/chats/:id/messages", h.PostMessage)
	}

	server := &http.Server{
		Addr:           ":8080",
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
