package routes

import (
	"github.com/anjiri1684/private_tutor/handlers"
	"github.com/anjiri1684/private_tutor/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MeetingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	meetings := api.Group("/meetings", middleware.Protected())
	meetings.Get("/me", handlers.GetMyMeetings)
	meetings.Post("", handlers.RequestMeeting)
	meetings.Post("/:meetingId/confirm", handlers.ConfirmMeeting)
	meetings.Post("/:meetingId/cancel", handlers.CancelMeeting)
	meetings.Post("/:meetingId/complete", middleware.TeacherRequired(), handlers.CompleteMeeting)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
