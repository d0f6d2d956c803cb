// ABOUTME: Core data models for microblog posts and location records
// ABOUTME: Provides constructors, field checks, and document encoding for the store

package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection names in the document store.
const (
	MicroblogCollection = "microblog"
	LocationCollection  = "location"

	// LatestLocationID is the single document id used in the location collection.
	LatestLocationID = "latest"
)

// MicroblogPost is a short text post. Content is stored verbatim.
type MicroblogPost struct {
	ID       uuid.UUID
	Content  string
	PostedAt time.Time
}

// LocationRecord is the caller's location as resolved from their IP address.
type LocationRecord struct {
	City       string
	Region     string
	Country    string
	Timezone   string
	ObservedAt time.Time
}

// NewMicroblogPostAt creates a post with a fresh UUID and the given timestamp.
func NewMicroblogPostAt(content string, postedAt time.Time) *MicroblogPost {
	return &MicroblogPost{
		ID:       uuid.New(),
		Content:  content,
		PostedAt: postedAt.UTC(),
	}
}

// Document encodes the post in the shape stored under the microblog collection.
func (p *MicroblogPost) Document() map[string]any {
	return map[string]any{
		"id":      p.ID.String(),
		"content": p.Content,
		"time":    FormatTimestamp(p.PostedAt),
	}
}

// MissingField names the first empty geographic field, checked in the order
// city, region, country, timezone. It returns "" when all are set.
func (r *LocationRecord) MissingField() string {
	switch {
	case r.City == "":
		return "city"
	case r.Region == "":
		return "region"
	case r.Country == "":
		return "country"
	case r.Timezone == "":
		return "timezone"
	}
	return ""
}

// Document encodes the record in the shape stored under the location collection.
func (r *LocationRecord) Document() map[string]any {
	return map[string]any{
		"city":     r.City,
		"region":   r.Region,
		"country":  r.Country,
		"timezone": r.Timezone,
		"time": map[string]any{
			"utc": FormatTimestamp(r.ObservedAt),
		},
	}
}

// FormatTimestamp renders t as RFC3339 in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
