// Package ui holds the per-session notification queue and modal stack.
// Both are plain data so they can be persisted between requests.
package ui

import (
	"time"
)

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
	AlertWarning AlertKind = "warning"
	AlertInfo    AlertKind = "info"
)

const DefaultAlertTTL = 5 * time.Second

// Icon is the Font Awesome glyph shown next to the message.
func (k AlertKind) Icon() string {
	switch k {
	case AlertSuccess:
		return "check-circle"
	case AlertError:
		return "exclamation-triangle"
	case AlertWarning:
		return "exclamation-circle"
	}
	return "info-circle"
}

type Alert struct {
	ID        int64     `json:"id"`
	Kind      AlertKind `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Remaining is how long the alert stays on screen after now.
func (a Alert) Remaining(now time.Time, ttl time.Duration) time.Duration {
	left := a.CreatedAt.Add(ttl).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Alerts is a FIFO queue; each entry expires TTL after it was pushed.
type Alerts struct {
	Items  []Alert `json:"items"`
	NextID int64   `json:"nextId"`
}

func (q *Alerts) Push(kind AlertKind, msg string, now time.Time) Alert {
	q.NextID++
	a := Alert{ID: q.NextID, Kind: kind, Message: msg, CreatedAt: now}
	q.Items = append(q.Items, a)
	return a
}

// Visible drops expired alerts and returns the rest in insertion order.
func (q *Alerts) Visible(now time.Time, ttl time.Duration) []Alert {
	kept := q.Items[:0]
	for _, a := range q.Items {
		if now.Before(a.CreatedAt.Add(ttl)) {
			kept = append(kept, a)
		}
	}
	q.Items = kept
	return append([]Alert(nil), kept...)
}

// Dismiss removes one alert before it expires.
func (q *Alerts) Dismiss(id int64) {
	kept := q.Items[:0]
	for _, a := range q.Items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	q.Items = kept
}
