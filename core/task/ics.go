package task

import (
	"fmt"
	"strings"
	"time"
)

const icsDateLayout = "20060102"

// BuildCalendarICS builds an iCalendar feed with one all-day event per task, for calendar sync.
// owner namespaces the event UIDs so that feeds of different users never collide.
func BuildCalendarICS(tasks []Task, owner string, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Task Tutor//Planner Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")
	for _, t := range tasks {
		due, err := ParseDate(t.DueDate)
		if err != nil {
			continue
		}
		summary := t.Title
		if t.IsCompleted() {
			summary = "✓ " + summary
		}
		desc := fmt.Sprintf("Priority: %s", t.Priority)
		if t.Course != "" {
			desc = fmt.Sprintf("Course: %s\nPriority: %s", t.Course, t.Priority)
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(fmt.Sprintf("task-%s-%d@tasktutor", owner, t.ID)),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(summary),
			"DTSTART;VALUE=DATE:"+due.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+due.AddDate(0, 0, 1).Format(icsDateLayout),
			"CATEGORIES:"+escapeICSText(t.Subject),
			"DESCRIPTION:"+escapeICSText(desc),
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
