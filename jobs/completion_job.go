package jobs

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/private_tutor/database"
	"github.com/anjiri1684/private_tutor/models"
	"github.com/anjiri1684/private_tutor/scheduling"
)

var scheduler *scheduling.Service

// Init wires the shared scheduling service; called once from main.
func Init(s *scheduling.Service) {
	scheduler = s
}

// CompleteElapsedMeetings moves confirmed meetings whose end time has passed
// into the completed state. Going through the scheduling service keeps the
// ledger and the meetings table in step.
func CompleteElapsedMeetings() {
	log.Println("Running job: CompleteElapsedMeetings...")

	var elapsed []models.Meeting
	err := database.DB.
		Where("status = ? AND end_time <= ?", "confirmed", time.Now()).
		Find(&elapsed).Error
	if err != nil {
		log.Printf("Error checking for elapsed meetings: %v", err)
		return
	}

	if len(elapsed) == 0 {
		return
	}

	completed := 0
	for _, meeting := range elapsed {
		if _, err := scheduler.Transition(context.Background(), meeting.ID, scheduling.ActionComplete); err != nil {
			log.Printf("Error completing meeting %s: %v", meeting.ID, err)
			continue
		}
		completed++
	}

	log.Printf("Marked %d meeting(s) as completed.", completed)
}
