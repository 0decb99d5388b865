package domain

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents user role in the system
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLecturer Role = "lecturer"
)

// Recognized reports whether the role is one the dashboard knows about
func (r Role) Recognized() bool {
	return r == RoleAdmin || r == RoleLecturer
}

// Subject is the identity carried in a credential's "sub" claim
type Subject struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// ClaimSet is the decoded payload of a bearer credential
type ClaimSet struct {
	Subject   *Subject         `json:"sub"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
}

// Role returns the subject's role, or "" when the subject is absent
func (c *ClaimSet) Role() Role {
	if c == nil || c.Subject == nil {
		return ""
	}
	return c.Subject.Role
}

// ScheduleRow is one class slot as produced by the scheduling backend
type ScheduleRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Major    string `json:"major"`
	Lecturer string `json:"lecturer"`
	Room     string `json:"room"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// Frequency of a recurrence rule
type Frequency string

const FrequencyWeekly Frequency = "weekly"

// WeeklyRule describes how an occurrence repeats
type WeeklyRule struct {
	Frequency Frequency      `json:"freq"`
	Interval  int            `json:"interval"`
	Anchor    time.Time      `json:"dtstart"`
	Until     time.Time      `json:"until"`
	Weekdays  []time.Weekday `json:"-"`
}

var weekdayCodes = [...]string{"su", "mo", "tu", "we", "th", "fr", "sa"}

// MarshalJSON renders the rule in the rrule shape calendar widgets consume
func (r WeeklyRule) MarshalJSON() ([]byte, error) {
	days := make([]string, 0, len(r.Weekdays))
	for _, d := range r.Weekdays {
		days = append(days, weekdayCodes[d])
	}
	return json.Marshal(struct {
		Frequency Frequency `json:"freq"`
		Interval  int       `json:"interval"`
		Anchor    string    `json:"dtstart"`
		Until     string    `json:"until"`
		Weekdays  []string  `json:"byweekday"`
	}{
		Frequency: r.Frequency,
		Interval:  r.Interval,
		Anchor:    r.Anchor.Format(time.RFC3339),
		Until:     r.Until.Format(time.RFC3339),
		Weekdays:  days,
	})
}

// CalendarOccurrence is a recurring calendar event projected from a ScheduleRow
type CalendarOccurrence struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Major       string     `json:"major"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Description string     `json:"description"`
	Recurrence  WeeklyRule `json:"rrule"`
}

// Instance is a single dated instance of a recurring occurrence
type Instance struct {
	OccurrenceID string    `json:"occurrence_id"`
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}
