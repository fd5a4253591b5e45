package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/private_tutor/database"
	"github.com/anjiri1684/private_tutor/models"
	"github.com/anjiri1684/private_tutor/notifications"
)

func SendMeetingReminders() {
	log.Println("Running job: SendMeetingReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcoming []models.Meeting

	err := database.DB.
		Preload("Participants").
		Where("status = ? AND start_time BETWEEN ? AND ?", "confirmed", lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming meetings: %v", err)
		return
	}

	if len(upcoming) == 0 {
		return
	}

	for _, meeting := range upcoming {
		log.Printf("Sending reminder for meeting ID: %s", meeting.ID)

		emailSubject := "Reminder: Your Meeting Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Meeting Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that your meeting about <b>%s</b> starts in one hour at %s.</p><p><b>Location:</b> %s</p>",
			meeting.Subject,
			meeting.StartTime.Format(time.Kitchen),
			meeting.Location,
		)

		for _, participant := range meeting.Participants {
			var user models.User
			if err := database.DB.First(&user, "id = ?", participant.ProfileID).Error; err != nil {
				continue
			}
			go notifications.SendEmail(user.FullName, user.Email, emailSubject, emailBody)
		}
	}
}
