package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Bekzhanizb/SocialHabitsBackend/cache"
	"github.com/Bekzhanizb/SocialHabitsBackend/db"
	"github.com/Bekzhanizb/SocialHabitsBackend/handlers"
	"github.com/Bekzhanizb/SocialHabitsBackend/middleware"
	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/Bekzhanizb/SocialHabitsBackend/routes"
	"github.com/Bekzhanizb/SocialHabitsBackend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application")

	if err := db.Connect(); err != nil {
		utils.Logger.Fatal("database_connection_failed", zap.Error(err))
	}
	if err := db.DB.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.CheckIn{},
		&models.Follow{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	// Redis is optional: without it the response cache and rate limiter
	// disable themselves and everything else keeps working.
	if err := cache.InitRedis(utils.Logger); err != nil {
		utils.Logger.Warn("redis_unavailable_running_without_cache", zap.Error(err))
	}
	defer cache.Close()

	handlers.Init(db.DB, utils.Logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if key := os.Getenv("CSRF_AUTH_KEY"); key != "" {
		var origins []string
		if raw := os.Getenv("CSRF_TRUSTED_ORIGINS"); raw != "" {
			origins = strings.Split(raw, ",")
		}
		r.Use(middleware.CSRFProtection([]byte(key), origins))
	}

	routes.Register(r)

	startServer(r)
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", port))
	fmt.Printf("SocialHabits backend listening on http://localhost:%s\n", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	utils.Logger.Info("server_stopped")
}
