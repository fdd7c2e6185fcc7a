package main

import (
	"log"
	"os"
	"time"

	"eduplus-app/config"
	"eduplus-app/database"
	croninit "eduplus-app/internal/app/cron"
	routes "eduplus-app/internal/app/http"
	"eduplus-app/internal/infra/cache"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()
	if err := cache.Init(config.REDIS_URL); err != nil {
		log.Fatal("Failed to connect to redis:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	jobs := croninit.NewManager(database.DB)
	if err := jobs.Start(); err != nil {
		panic(err)
	}
	defer jobs.Stop()

	r.Run(":" + config.PORT)
}
