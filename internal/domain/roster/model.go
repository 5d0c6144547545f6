package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DaySchedule is one weekday's working window. Times are "HH:MM" wall
// clock strings and the window is inclusive on both ends.
type DaySchedule struct {
	Day         string `db:"day" json:"day"`
	StartTime   string `db:"start_time" json:"start_time,omitempty"`
	EndTime     string `db:"end_time" json:"end_time,omitempty"`
	IsAvailable bool   `db:"is_available" json:"is_available"`
}

// WeeklySchedule is a doctor's full week, one entry per weekday.
type WeeklySchedule struct {
	DoctorID  uuid.UUID     `json:"doctor_id"`
	Days      []DaySchedule `json:"days"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Window returns the working window for the given weekday in minutes since
// midnight. ok is false when the doctor is off that day or the day is not
// in the schedule.
func (w *WeeklySchedule) Window(day time.Weekday) (startMin, endMin int, ok bool) {
	name := day.String()
	for _, d := range w.Days {
		if !strings.EqualFold(d.Day, name) {
			continue
		}
		if !d.IsAvailable {
			return 0, 0, false
		}
		start, err := ParseClock(d.StartTime)
		if err != nil {
			return 0, 0, false
		}
		end, err := ParseClock(d.EndTime)
		if err != nil {
			return 0, 0, false
		}
		return start, end, true
	}
	return 0, 0, false
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

var weekdays = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

func canonicalDay(s string) (string, bool) {
	for _, d := range weekdays {
		if strings.EqualFold(s, d) {
			return d, true
		}
	}
	return "", false
}
