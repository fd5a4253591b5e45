package handlers

import (
	"errors"
	"strings"

	"github.com/anjiri1684/private_tutor/database"
	"github.com/anjiri1684/private_tutor/models"
	"github.com/anjiri1684/private_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateStudentProfileRequest struct {
	Phone        string   `json:"phone"`
	AboutSection string   `json:"about_section"`
	Subjects     []string `json:"subjects_interested_in_learning" validate:"required,min=1"`
}

type CreateTeacherProfileRequest struct {
	Phone        string   `json:"phone"`
	AboutSection string   `json:"about_section"`
	Subjects     []string `json:"subjects_to_teach" validate:"required,min=1"`
	HourlyRate   float64  `json:"hourly_rate" validate:"gte=0"`
}

// The front-end's role toggle auto-creates the missing profile, so both
// create endpoints return the existing profile instead of failing when one
// is already there.
func CreateStudentProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateStudentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Student
	err := database.DB.Preload("User").Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return c.JSON(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	student := models.Student{
		UserID:       userID,
		Phone:        &req.Phone,
		AboutSection: &req.AboutSection,
		Subjects:     utils.JoinSubjects(req.Subjects),
	}
	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create student profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(student)
}

func CreateTeacherProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateTeacherProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Teacher
	err := database.DB.Preload("User").Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return c.JSON(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	teacher := models.Teacher{
		UserID:       userID,
		Phone:        &req.Phone,
		AboutSection: &req.AboutSection,
		Subjects:     utils.JoinSubjects(req.Subjects),
		HourlyRate:   req.HourlyRate,
	}
	if err := database.DB.Create(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create teacher profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(teacher)
}

// GetMyProfiles returns the account plus whichever role profiles exist, so
// the front-end knows which sides of the role toggle are active.
func GetMyProfiles(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	response := fiber.Map{"user": user, "student": nil, "teacher": nil}

	var student models.Student
	if err := database.DB.Where("user_id = ?", userID).First(&student).Error; err == nil {
		response["student"] = student
	}
	var teacher models.Teacher
	if err := database.DB.Where("user_id = ?", userID).First(&teacher).Error; err == nil {
		response["teacher"] = teacher
	}

	return c.JSON(response)
}

type UpdateProfileRequest struct {
	Phone        *string  `json:"phone"`
	AboutSection *string  `json:"about_section"`
	Subjects     []string `json:"subjects"`
	HourlyRate   *float64 `json:"hourly_rate"`
}

func UpdateStudentProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var student models.Student
	if err := database.DB.First(&student, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student profile not found"})
	}

	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.AboutSection != nil {
		student.AboutSection = req.AboutSection
	}
	if len(req.Subjects) > 0 {
		student.Subjects = utils.JoinSubjects(req.Subjects)
	}
	database.DB.Save(&student)

	return c.JSON(student)
}

func UpdateTeacherProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}

	if req.Phone != nil {
		teacher.Phone = req.Phone
	}
	if req.AboutSection != nil {
		teacher.AboutSection = req.AboutSection
	}
	if len(req.Subjects) > 0 {
		teacher.Subjects = utils.JoinSubjects(req.Subjects)
	}
	if req.HourlyRate != nil {
		teacher.HourlyRate = *req.HourlyRate
	}
	database.DB.Save(&teacher)

	return c.JSON(teacher)
}

func ListTeachers(c *fiber.Ctx) error {
	query := database.DB.Preload("User")

	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subjects ILIKE ?", "%"+strings.TrimSpace(subject)+"%")
	}

	var teachers []models.Teacher
	if err := query.Find(&teachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve teachers"})
	}

	return c.JSON(teachers)
}

func GetTeacherProfile(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")

	var teacher models.Teacher
	if err := database.DB.Preload("User").First(&teacher, "user_id = ?", teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
	}

	return c.JSON(fiber.Map{
		"teacher":  teacher,
		"subjects": utils.SplitSubjects(teacher.Subjects),
	})
}
