package study

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tasktutor/core"
)

const (
	ActivityTable = "study_activity"
	SessionTable  = "study_sessions"
)

var (
	ErrNotFound       = errors.New("study record not found")
	ErrUnknownUser    = errors.New("no user found with that ID")
	ErrInvalidType    = errors.New("invalid activity type")
	ActivityTypes     = []string{"quiz", "flashcards", "matching", "notes"}
	activityTypeIndex = map[string]struct{}{"quiz": {}, "flashcards": {}, "matching": {}, "notes": {}}
)

// IsActivityType reports whether t is one of ActivityTypes.
func IsActivityType(t string) bool {
	_, ok := activityTypeIndex[t]
	return ok
}

// Activity is one logged quiz, flashcards, matching or notes run.
type Activity struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	ActivityType    string      `json:"activity_type"`
	Topic           null.String `json:"topic"`
	ItemsTotal      int         `json:"items_total"`
	ItemsCorrect    int         `json:"items_correct"`
	DurationMinutes int         `json:"duration_minutes"`
	CreatedAt       time.Time   `json:"created_at"` // UTC
}

// Accuracy is correct/total as a percentage with one decimal, or "N/A" without items.
func (a Activity) Accuracy() string {
	if a.ItemsTotal <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(float64(a.ItemsCorrect)/float64(a.ItemsTotal)*100, 'f', 1, 64)
}

// TopicOr returns the topic, or def when it is null.
func (a Activity) TopicOr(def string) string {
	if !a.Topic.Valid {
		return def
	}
	return a.Topic.String
}

type NewActivity struct {
	UserID          string `json:"user_id" validate:"notblank"`
	ActivityType    string `json:"activity_type" validate:"required"`
	Topic           string `json:"topic"`
	ItemsTotal      int    `json:"items_total" validate:"min=0"`
	ItemsCorrect    int    `json:"items_correct" validate:"min=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
}

func (na *NewActivity) Validate(validate *validator.Validate) error {
	na.UserID = core.CleanString(na.UserID)
	na.ActivityType = core.CleanString(na.ActivityType)
	na.Topic = core.CleanString(na.Topic)
	return validate.Struct(na)
}

// Session is a timed, scored study session.
type Session struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	SessionType     string    `json:"session_type"`
	DurationMinutes int       `json:"duration_minutes"`
	Score           int       `json:"score"`
	TotalPossible   int       `json:"total_possible"`
	Percentage      float64   `json:"percentage"`
	CreatedAt       time.Time `json:"created_at"` // UTC
}

type NewSession struct {
	UserID          string `json:"user_id" validate:"notblank"`
	SessionType     string `json:"session_type" validate:"notblank"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	Score           int    `json:"score" validate:"min=0"`
	TotalPossible   int    `json:"total_possible" validate:"min=0"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.UserID = core.CleanString(ns.UserID)
	ns.SessionType = core.CleanString(ns.SessionType)
	return validate.Struct(ns)
}

// Percentage is score/total*100, 0 when total is 0.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

func activityFromRecord(rec core.Record) Activity {
	return Activity{
		ID:              rec.String("id"),
		UserID:          rec.String("user_id"),
		ActivityType:    rec.String("activity_type"),
		Topic:           rec.NullString("topic"),
		ItemsTotal:      rec.Int("items_total"),
		ItemsCorrect:    rec.Int("items_correct"),
		DurationMinutes: rec.Int("duration_minutes"),
		CreatedAt:       rec.Time("created_at"),
	}
}

func sessionFromRecord(rec core.Record) Session {
	return Session{
		ID:              rec.String("id"),
		UserID:          rec.String("user_id"),
		SessionType:     rec.String("session_type"),
		DurationMinutes: rec.Int("duration_minutes"),
		Score:           rec.Int("score"),
		TotalPossible:   rec.Int("total_possible"),
		Percentage:      rec.Float("percentage"),
		CreatedAt:       rec.Time("created_at"),
	}
}
