package handlers

import (
	"errors"
	"time"

	"github.com/anjiri1684/private_tutor/database"
	"github.com/anjiri1684/private_tutor/models"
	"github.com/anjiri1684/private_tutor/scheduling"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateAvailabilityRequest struct {
	Role      string `json:"role" validate:"required,oneof=student teacher"`
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateAvailabilityWindow adds a window to the caller's profile. The
// existing rows are locked and replayed through an AvailabilitySet, so every
// write goes through the same validation and overlap rules.
func CreateAvailabilityWindow(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateAvailabilityRequest
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

	if !profileExistsForRole(userID, req.Role) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Create a " + req.Role + " profile first"})
	}

	var window models.AvailabilityWindow
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var rows []models.AvailabilityWindow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("profile_id = ? AND role = ?", userID, req.Role).
			Order("start_time asc").
			Find(&rows).Error; err != nil {
			return err
		}

		set, err := database.WindowSet(rows)
		if err != nil {
			return err
		}
		if err := set.Add(interval); err != nil {
			return err
		}

		window = models.AvailabilityWindow{
			ProfileID: userID,
			Role:      req.Role,
			StartTime: interval.Start,
			EndTime:   interval.End,
		}
		return tx.Create(&window).Error
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrOverlapConflict) || errors.Is(err, scheduling.ErrInvalidInterval) {
			return schedulingError(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create availability window"})
	}

	return c.Status(fiber.StatusCreated).JSON(window)
}

func GetMyAvailability(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	query := database.DB.Where("profile_id = ?", userID)
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var windows []models.AvailabilityWindow
	query.Order("start_time asc").Find(&windows)

	return c.JSON(windows)
}

func GetTeacherAvailability(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")

	var windows []models.AvailabilityWindow
	database.DB.
		Where("profile_id = ? AND role = ? AND start_time > ?", teacherID, "teacher", time.Now()).
		Order("start_time asc").
		Find(&windows)

	return c.JSON(windows)
}

func DeleteAvailabilityWindow(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	windowID := c.Params("windowId")

	var window models.AvailabilityWindow
	if err := database.DB.First(&window, "id = ? AND profile_id = ?", windowID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability window not found or you do not have permission to delete it."})
	}

	interval, err := scheduling.NewTimeInterval(window.StartTime, window.EndTime)
	if err == nil {
		ref := scheduling.ProfileRef{ID: userID, Role: scheduling.Role(window.Role)}
		if scheduler.HasConflict(ref, interval) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete a window with an active meeting scheduled in it."})
		}
	}

	database.DB.Delete(&window)

	return c.SendStatus(fiber.StatusNoContent)
}

func profileExistsForRole(userID uuid.UUID, role string) bool {
	var count int64
	switch role {
	case "student":
		database.DB.Model(&models.Student{}).Where("user_id = ?", userID).Count(&count)
	case "teacher":
		database.DB.Model(&models.Teacher{}).Where("user_id = ?", userID).Count(&count)
	}
	return count > 0
}
