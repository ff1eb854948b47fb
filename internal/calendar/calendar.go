// Package calendar answers whether a timestamp falls inside a known
// scheduled market event window, backed by a small set of recurring event
// families plus manually registered one-off events.
package calendar

import (
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"marketintel/internal/models"
)

const defaultWindow = 30 * time.Minute

// centralBankMonthDays are the eight month/day pairs central-bank decision
// days recur on, at the scheduled hour below.
var centralBankMonthDays = [8][2]int{
	{1, 31}, {3, 20}, {5, 1}, {6, 19}, {7, 31}, {9, 18}, {11, 7}, {12, 18},
}

const centralBankHour = 14 // 2pm local decision time

// Calendar holds a generated window of recurring events plus manual
// additions. Reads are re-entrant; generation happens once at construction
// or on demand via Regenerate.
type Calendar struct {
	mu     sync.RWMutex
	events []models.Event
}

// New builds a Calendar with recurring events generated for the given
// horizon, anchored at from.
func New(from time.Time, horizonYears int) *Calendar {
	c := &Calendar{}
	c.Regenerate(from, horizonYears)
	return c
}

// Regenerate rebuilds the recurring-event set for [from, from+horizonYears).
func (c *Calendar) Regenerate(from time.Time, horizonYears int) {
	until := from.AddDate(horizonYears, 0, 0)
	events := make([]models.Event, 0, 64)
	events = append(events, centralBankEvents(from, until)...)
	events = append(events, cpiEvents(from, until)...)
	events = append(events, jobsEvents(from, until)...)

	c.mu.Lock()
	c.events = events
	c.mu.Unlock()
}

// Add registers a manual, one-off event.
func (c *Calendar) Add(e models.Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// FindMatching returns the first scheduled event within window of ts that
// matches ticker (when both are non-empty) or any keyword substring.
func (c *Calendar) FindMatching(ts time.Time, ticker string, keywords []string, window time.Duration) (models.Event, bool) {
	if window <= 0 {
		window = defaultWindow
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.events {
		if absDuration(e.Time.Sub(ts)) > window {
			continue
		}
		tickerMatch := ticker != "" && e.Ticker != "" && e.Ticker == ticker
		if tickerMatch || matchesKeywords(e, keywords) {
			return e, true
		}
		if ticker == "" && e.Ticker == "" && len(keywords) == 0 {
			return e, true
		}
	}
	return models.Event{}, false
}

func matchesKeywords(e models.Event, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	hay := strings.ToLower(e.Name + " " + e.Description)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(hay, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func centralBankEvents(from, until time.Time) []models.Event {
	var out []models.Event
	for year := from.Year(); year <= until.Year(); year++ {
		for _, md := range centralBankMonthDays {
			t := time.Date(year, time.Month(md[0]), md[1], centralBankHour, 0, 0, 0, from.Location())
			if t.Before(from) || !t.Before(until) {
				continue
			}
			out = append(out, models.Event{
				Name:        "Central Bank Policy Decision",
				Description: "Scheduled central bank interest rate decision",
				Time:        t,
				Importance:  models.ImportanceHigh,
			})
		}
	}
	return out
}

// cpiSchedule fires once a month on the 13th at 08:30.
const cpiSchedule = "30 8 13 * *"

func cpiEvents(from, until time.Time) []models.Event {
	return generateFromCron(cpiSchedule, from, until, models.Event{
		Name:        "CPI Release",
		Description: "Monthly consumer price index inflation release",
		Importance:  models.ImportanceHigh,
	})
}

// jobsSchedule fires every Friday at 08:30; the first-Friday-of-month
// filter is applied after generation since cron has no "nth weekday" verb.
const jobsSchedule = "30 8 * * 5"

func jobsEvents(from, until time.Time) []models.Event {
	fridays := generateFromCron(jobsSchedule, from, until, models.Event{
		Name:        "Jobs Release",
		Description: "Monthly non-farm payrolls / employment situation release",
		Importance:  models.ImportanceHigh,
	})
	out := make([]models.Event, 0, len(fridays)/4+1)
	for _, e := range fridays {
		if e.Time.Day() <= 7 {
			out = append(out, e)
		}
	}
	return out
}

func generateFromCron(spec string, from, until time.Time, template models.Event) []models.Event {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil
	}
	var out []models.Event
	t := from
	for {
		next := sched.Next(t)
		if !next.Before(until) {
			break
		}
		e := template
		e.Time = next
		out = append(out, e)
		t = next
	}
	return out
}
