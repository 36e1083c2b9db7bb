package task

import (
	"strings"
	"time"
)

// FilterAll matches any status, priority or subject.
const FilterAll = "all"

// Criteria is the Tasks page filter state. Empty values behave as "all".
type Criteria struct {
	Status   string    `query:"status" json:"status"`
	Priority string    `query:"priority" json:"priority"`
	Subject  string    `query:"subject" json:"subject"`
	Due      DueBucket `query:"due" json:"due"`
	Search   string    `query:"search" json:"search"`
}

func isAll(v string) bool { return v == "" || v == FilterAll }

func (c Criteria) matchStatus(t Task) bool {
	return isAll(c.Status) || string(t.Status) == c.Status
}

func (c Criteria) matchPriority(t Task) bool {
	return isAll(c.Priority) || string(t.Priority) == c.Priority
}

func (c Criteria) matchSubject(t Task) bool {
	return isAll(c.Subject) || t.Subject == c.Subject
}

func (c Criteria) matchDue(t Task, now time.Time) bool {
	if isAll(string(c.Due)) {
		return true
	}
	return c.Due.Contains(t.Due(), now)
}

// matchSearch does a case-insensitive match on one of Title, Subject or Course.
func (c Criteria) matchSearch(t Task) bool {
	q := strings.ToLower(strings.TrimSpace(c.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Subject), q) ||
		strings.Contains(strings.ToLower(t.Course), q)
}

// Match applies AND on all the criteria.
func (c Criteria) Match(t Task, now time.Time) bool {
	return c.matchStatus(t) &&
		c.matchPriority(t) &&
		c.matchSubject(t) &&
		c.matchDue(t, now) &&
		c.matchSearch(t)
}

// Apply returns the matching tasks in their original order.
func (c Criteria) Apply(tasks []Task, now time.Time) []Task {
	res := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Match(t, now) {
			res = append(res, t)
		}
	}
	return res
}
