package queue

import (
	"errors"
	"time"

	"github.com/adarshprakasan/Hospiq/internal/domain/roster"
)

var (
	ErrDoctorUnavailableToday = errors.New("doctor is not available today")
	ErrOutsideWorkingHours    = errors.New("doctor is not available at this time")
)

// CanBookNow decides whether a token may be issued for a doctor at the
// given instant. now must already be in the clinic time zone. The window
// check is inclusive on both ends, so a 09:00-13:00 day accepts 09:00 and
// 13:00 exactly.
func CanBookNow(week *roster.WeeklySchedule, now time.Time) error {
	if week == nil {
		return roster.ErrScheduleNotSet
	}
	start, end, ok := week.Window(now.Weekday())
	if !ok {
		return ErrDoctorUnavailableToday
	}
	current := now.Hour()*60 + now.Minute()
	if current < start || current > end {
		return ErrOutsideWorkingHours
	}
	return nil
}
