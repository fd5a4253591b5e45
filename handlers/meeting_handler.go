package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/private_tutor/database"
	"github.com/anjiri1684/private_tutor/models"
	"github.com/anjiri1684/private_tutor/notifications"
	"github.com/anjiri1684/private_tutor/scheduling"
	"github.com/anjiri1684/private_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var scheduler *scheduling.Service

// InitScheduler wires the shared scheduling service; called once from main.
func InitScheduler(s *scheduling.Service) {
	scheduler = s
}

type RequestMeetingRequest struct {
	CounterpartID   string `json:"counterpart_id" validate:"required,uuid"`
	CounterpartRole string `json:"counterpart_role" validate:"required,oneof=student teacher"`
	StartTime       string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime         string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Subject         string `json:"subject" validate:"required"`
	Location        string `json:"location" validate:"required"`
}

func RequestMeeting(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req RequestMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)
	interval, err := scheduling.NewTimeInterval(startTime, endTime)
	if err != nil {
		return schedulingError(c, err)
	}

	counterpartID, _ := uuid.Parse(req.CounterpartID)
	counterpartRole := scheduling.Role(req.CounterpartRole)
	requesterRole := scheduling.RoleStudent
	if counterpartRole == scheduling.RoleStudent {
		requesterRole = scheduling.RoleTeacher
	}

	if !profileExistsForRole(userID, string(requesterRole)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Create a " + string(requesterRole) + " profile first"})
	}

	meeting, err := scheduler.RequestMeeting(c.Context(), scheduling.MeetingRequest{
		Requester:   scheduling.ProfileRef{ID: userID, Role: requesterRole},
		Counterpart: scheduling.ProfileRef{ID: counterpartID, Role: counterpartRole},
		Interval:    interval,
		Subject:     req.Subject,
		Location:    req.Location,
	})
	if err != nil {
		return schedulingError(c, err)
	}

	go notifyMeetingParticipants(meeting, "New Meeting Request",
		fmt.Sprintf("<h1>Meeting Requested</h1><p>A meeting about <b>%s</b> has been requested for %s at %s. Log in to confirm or decline.</p>",
			meeting.Subject, meeting.Interval.Start.Format(time.RFC1123), meeting.Location))
	websocket.NotifyMeeting("meeting_requested", meeting)

	return c.Status(fiber.StatusCreated).JSON(meeting)
}

func ConfirmMeeting(c *fiber.Ctx) error {
	return transitionMeeting(c, scheduling.ActionConfirm, "meeting_confirmed", "Meeting Confirmed",
		"<h1>Meeting Confirmed</h1><p>Your meeting has been confirmed. See you there!</p>")
}

func CancelMeeting(c *fiber.Ctx) error {
	return transitionMeeting(c, scheduling.ActionCancel, "meeting_cancelled", "Meeting Cancelled",
		"<h1>Meeting Cancelled</h1><p>Your meeting has been cancelled.</p>")
}

func CompleteMeeting(c *fiber.Ctx) error {
	return transitionMeeting(c, scheduling.ActionComplete, "meeting_completed", "", "")
}

func transitionMeeting(c *fiber.Ctx, action scheduling.TransitionAction, event, emailSubject, emailBody string) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	meetingID, err := uuid.Parse(c.Params("meetingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid meeting id"})
	}

	meeting, err := scheduler.Get(meetingID)
	if err != nil {
		return schedulingError(c, err)
	}
	if !meeting.HasUser(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a participant of this meeting"})
	}

	updated, err := scheduler.Transition(c.Context(), meetingID, action)
	if err != nil {
		return schedulingError(c, err)
	}

	if emailSubject != "" {
		go notifyMeetingParticipants(updated, emailSubject, emailBody)
	}
	websocket.NotifyMeeting(event, updated)

	return c.JSON(updated)
}

func GetMyMeetings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	return c.JSON(scheduler.ListForUser(userID))
}

func notifyMeetingParticipants(m scheduling.Meeting, subject, body string) {
	for _, p := range m.Participants {
		var user models.User
		if err := database.DB.First(&user, "id = ?", p.ID).Error; err != nil {
			continue
		}
		notifications.SendEmail(user.FullName, user.Email, subject, body)
	}
}

// schedulingError maps the scheduling error taxonomy onto HTTP statuses with
// a stable machine-readable kind.
func schedulingError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, scheduling.ErrInvalidInterval):
		status, kind = fiber.StatusBadRequest, "invalid_interval"
	case errors.Is(err, scheduling.ErrSelfMeeting):
		status, kind = fiber.StatusBadRequest, "self_meeting"
	case errors.Is(err, scheduling.ErrNotAvailable):
		status, kind = fiber.StatusUnprocessableEntity, "not_available"
	case errors.Is(err, scheduling.ErrOverlapConflict):
		status, kind = fiber.StatusConflict, "overlap_conflict"
	case errors.Is(err, scheduling.ErrIllegalTransition):
		status, kind = fiber.StatusConflict, "illegal_transition"
	case errors.Is(err, scheduling.ErrNotFound):
		status, kind = fiber.StatusNotFound, "not_found"
	case errors.Is(err, scheduling.ErrStoreUnavailable):
		status, kind = fiber.StatusServiceUnavailable, "store_unavailable"
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": kind})
}
