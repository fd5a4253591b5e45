package routes

import (
	"github.com/anjiri1684/private_tutor/handlers"
	"github.com/anjiri1684/private_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AvailabilityRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/teachers/:teacherId/availability", handlers.GetTeacherAvailability)

	availability := api.Group("/availability", middleware.Protected())
	availability.Post("", handlers.CreateAvailabilityWindow)
	availability.Get("/me", handlers.GetMyAvailability)
	availability.Delete("/:windowId", handlers.DeleteAvailabilityWindow)
}
