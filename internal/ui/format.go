// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable confirmation output for posts, locations, and READMEs

package ui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/adot/internal/models"
)

// FormatPost formats a stored microblog post.
func FormatPost(post *models.MicroblogPost) string {
	if post == nil {
		return color.New(color.Faint).Sprint("(no post)")
	}
	return fmt.Sprintf("%s %s %s\n  %s",
		color.GreenString("✓ Posted"),
		post.ID.String()[:8],
		color.New(color.Faint).Sprintf("(%s)", FormatRelativeTime(post.PostedAt)),
		FormatContent(post.Content, 72))
}

// FormatLocation formats a stored location record.
func FormatLocation(loc *models.LocationRecord) string {
	if loc == nil {
		return color.New(color.Faint).Sprint("(no location)")
	}
	return fmt.Sprintf("%s %s\n  %s %s",
		color.GreenString("✓ Location updated:"),
		color.CyanString("%s, %s, %s", loc.City, loc.Region, loc.Country),
		color.New(color.Faint).Sprint(loc.Timezone),
		color.New(color.Faint).Sprint(models.FormatTimestamp(loc.ObservedAt)))
}

// FormatReadme formats the outcome of a footer append.
func FormatReadme(path string, changed bool) string {
	if !changed {
		return fmt.Sprintf("%s %s",
			color.YellowString("• Footer already present in"),
			path)
	}
	return fmt.Sprintf("%s %s",
		color.GreenString("✓ Footer added to"),
		path)
}

// FormatDocument renders a stored document as indented JSON.
func FormatDocument(doc map[string]any) string {
	b, err := json.MarshalIndent(doc, "  ", "  ")
	if err != nil {
		return color.RedString("(unprintable document: %v)", err)
	}
	return "  " + color.New(color.Faint).Sprint(string(b))
}

// FormatContent collapses whitespace and truncates to max runes.
func FormatContent(content string, max int) string {
	s := strings.Join(strings.Fields(content), " ")
	r := []rune(s)
	if max > 1 && len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
