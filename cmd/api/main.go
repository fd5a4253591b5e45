package main

import (
	"log"
	"time"

	"github.com/anjiri1684/private_tutor/database"
	"github.com/anjiri1684/private_tutor/handlers"
	"github.com/anjiri1684/private_tutor/jobs"
	"github.com/anjiri1684/private_tutor/notifications"
	"github.com/anjiri1684/private_tutor/routes"
	"github.com/anjiri1684/private_tutor/scheduling"
	"github.com/anjiri1684/private_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	notifications.InitEmailService()

	ledger := scheduling.NewMeetingLedger()
	if err := database.LoadMeetings(ledger); err != nil {
		log.Fatalf("🔥 Failed to restore meetings: %v", err)
	}
	gateway := database.SchedulingGateway{}
	scheduler := scheduling.NewService(ledger, gateway, gateway)
	handlers.InitScheduler(scheduler)
	jobs.Init(scheduler)

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.CompleteElapsedMeetings)
	c.AddFunc("*/5 * * * *", jobs.SendMeetingReminders)
	go c.Start()
	log.Println("✅ Cron jobs for meeting completion and reminders scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Private Tutor",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		PassLocalsToViews: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Africa/Nairobi",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Private Tutor API",
		})
	})

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.AvailabilityRoutes(app)
	routes.MeetingRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
