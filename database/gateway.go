package database

import (
	"context"
	"fmt"
	"log"

	"github.com/anjiri1684/private_tutor/models"
	"github.com/anjiri1684/private_tutor/scheduling"
	"gorm.io/gorm/clause"
)

// SchedulingGateway adapts Postgres to the scheduling core's collaborator
// interfaces (AvailabilityProvider and MeetingGateway).
type SchedulingGateway struct{}

func (SchedulingGateway) GetAvailability(ctx context.Context, ref scheduling.ProfileRef) (*scheduling.AvailabilitySet, error) {
	if err := profileExists(ctx, ref); err != nil {
		return nil, err
	}

	var rows []models.AvailabilityWindow
	err := DB.WithContext(ctx).
		Where("profile_id = ? AND role = ?", ref.ID, string(ref.Role)).
		Order("start_time asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return WindowSet(rows)
}

func profileExists(ctx context.Context, ref scheduling.ProfileRef) error {
	var count int64
	var err error
	switch ref.Role {
	case scheduling.RoleStudent:
		err = DB.WithContext(ctx).Model(&models.Student{}).Where("user_id = ?", ref.ID).Count(&count).Error
	case scheduling.RoleTeacher:
		err = DB.WithContext(ctx).Model(&models.Teacher{}).Where("user_id = ?", ref.ID).Count(&count).Error
	default:
		return scheduling.ErrNotFound
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return scheduling.ErrNotFound
	}
	return nil
}

// WindowSet rebuilds an AvailabilitySet from persisted rows. Every row went
// through AvailabilitySet.Add on the way in, so a failure here means the
// table was modified outside the API.
func WindowSet(rows []models.AvailabilityWindow) (*scheduling.AvailabilitySet, error) {
	set, _ := scheduling.NewAvailabilitySet()
	for _, row := range rows {
		iv, err := scheduling.NewTimeInterval(row.StartTime, row.EndTime)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", row.ID, err)
		}
		if err := set.Add(iv); err != nil {
			return nil, fmt.Errorf("window %s: %w", row.ID, err)
		}
	}
	return set, nil
}

func (SchedulingGateway) SaveMeeting(ctx context.Context, m scheduling.Meeting) error {
	row := meetingRow(m)
	return DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (SchedulingGateway) UpdateMeeting(ctx context.Context, m scheduling.Meeting) error {
	return DB.WithContext(ctx).Model(&models.Meeting{}).
		Where("id = ?", m.ID).
		Update("status", string(m.State)).Error
}

func meetingRow(m scheduling.Meeting) models.Meeting {
	row := models.Meeting{
		ID:        m.ID,
		Subject:   m.Subject,
		Location:  m.Location,
		StartTime: m.Interval.Start,
		EndTime:   m.Interval.End,
		Status:    string(m.State),
	}
	for _, p := range m.Participants {
		row.Participants = append(row.Participants, models.MeetingParticipant{
			MeetingID: m.ID,
			ProfileID: p.ID,
			Role:      string(p.Role),
		})
	}
	return row
}

// LoadMeetings rebuilds the scheduling ledger from the meetings table at
// startup so conflict checks see everything created before the restart.
func LoadMeetings(ledger *scheduling.MeetingLedger) error {
	var rows []models.Meeting
	if err := DB.Preload("Participants").Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		iv, err := scheduling.NewTimeInterval(row.StartTime, row.EndTime)
		if err != nil {
			log.Printf("Skipping meeting %s with malformed interval", row.ID)
			continue
		}
		m := scheduling.Meeting{
			ID:        row.ID,
			Interval:  iv,
			Subject:   row.Subject,
			Location:  row.Location,
			State:     scheduling.MeetingState(row.Status),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		for _, p := range row.Participants {
			m.Participants = append(m.Participants, scheduling.ProfileRef{
				ID:   p.ProfileID,
				Role: scheduling.Role(p.Role),
			})
		}
		ledger.Restore(m)
	}

	log.Printf("Restored %d meeting(s) into the scheduling ledger", len(rows))
	return nil
}
