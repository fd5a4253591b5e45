package routes

import (
	"github.com/anjiri1684/private_tutor/handlers"
	"github.com/anjiri1684/private_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/teachers", handlers.ListTeachers)
	api.Get("/teachers/:teacherId", handlers.GetTeacherProfile)

	profiles := api.Group("/profiles", middleware.Protected())
	profiles.Get("/me", handlers.GetMyProfiles)
	profiles.Post("/student", handlers.CreateStudentProfile)
	profiles.Put("/student", handlers.UpdateStudentProfile)
	profiles.Post("/teacher", handlers.CreateTeacherProfile)
	profiles.Put("/teacher", handlers.UpdateTeacherProfile)
}
