// @title           Campus Care API
// @version         1.0
// @description     Campus complaint tracking: students submit complaints which are AI-categorized, admins triage and resolve them.
// @BasePath        /api
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Format: Bearer <token>
package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/campuscare/campus-care-backend/internal/ai"
	"github.com/campuscare/campus-care-backend/internal/auth"
	"github.com/campuscare/campus-care-backend/internal/complaints"
	"github.com/campuscare/campus-care-backend/internal/config"
	"github.com/campuscare/campus-care-backend/internal/storage"
	"github.com/campuscare/campus-care-backend/internal/store"
	"github.com/campuscare/campus-care-backend/pkg/database"
	"github.com/campuscare/campus-care-backend/pkg/models"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db := database.Init()
	if err := db.AutoMigrate(&models.User{}, &models.Complaint{}); err != nil {
		log.Fatal("migration failed:", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("invalid REDIS_URL:", err)
	}
	rdb := redis.NewClient(redisOpts)

	notifier := store.NewNotifier(rdb)
	st := store.NewService(db, notifier)

	media := storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	inference := ai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AITimeout)

	app := fiber.New(fiber.Config{
		ErrorHandler: auth.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := app.Group("/api")

	// Auth
	authH := auth.NewHandler(db)
	api.Post("/signup", authH.Signup)
	api.Post("/login", authH.Login)
	api.Get("/me", auth.RequireAuth(), authH.Me)

	// Complaints
	svc := complaints.NewService(st, media, inference)
	cmplH := complaints.NewHandler(svc, st, notifier)
	// Student
	api.Post("/complaints", auth.RequireAuth(), auth.RequireRole("student"), cmplH.Create)
	api.Get("/complaints/mine", auth.RequireAuth(), auth.RequireRole("student"), cmplH.ListMine)
	api.Get("/complaints/:id", auth.RequireAuth(), cmplH.GetDetail)
	// Admin
	api.Patch("/complaints/:id/status", auth.RequireAuth(), auth.RequireRole("admin"), cmplH.UpdateStatus)
	api.Get("/complaints/:id/summary", auth.RequireAuth(), auth.RequireRole("admin"), cmplH.Summary)
	api.Get("/admin/complaints", auth.RequireAuth(), auth.RequireRole("admin"), cmplH.AdminList)
	api.Get("/admin/dashboard", auth.RequireAuth(), auth.RequireRole("admin"), cmplH.Dashboard)

	// Live list feed (full snapshot on every change)
	app.Use("/ws", complaints.UpgradeRequired)
	app.Get("/ws/complaints", auth.RequireAuth(), cmplH.Live())

	log.Println("Server running on :" + cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
