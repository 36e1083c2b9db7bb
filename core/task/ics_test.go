package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCalendarICS(t *testing.T) {
	tasks := []Task{
		{ID: 1, Title: "Review, Bio; Ch 3", DueDate: "2026-02-13", Status: StatusCompleted, Priority: PriorityHigh, Subject: "Biology", Course: "Biology 101"},
		{ID: 2, Title: "Math", DueDate: "2026-02-28", Status: StatusPending, Priority: PriorityLow, Subject: "Math"},
		{ID: 3, Title: "Broken", DueDate: "soon"},
	}
	ics := BuildCalendarICS(tasks, "u1", today)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"), "tasks without a valid date are skipped")
	assert.Contains(t, ics, "UID:task-u1-1@tasktutor\r\n")
	assert.Contains(t, ics, "SUMMARY:✓ Review\\, Bio\\; Ch 3\r\n")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260213\r\nDTEND;VALUE=DATE:20260214\r\n")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260228\r\nDTEND;VALUE=DATE:20260301\r\n")
	assert.Contains(t, ics, "DESCRIPTION:Course: Biology 101\\nPriority: high\r\n")
	assert.Contains(t, ics, "DESCRIPTION:Priority: low\r\n")
	assert.Contains(t, ics, "DTSTAMP:20260213T153000Z\r\n")
}
