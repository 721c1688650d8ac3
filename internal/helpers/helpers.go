package helpers

import (
	"fmt"
	"strings"
	"time"
)

// TimeAgo renders t relative to now, the way feeds usually do.
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Truncate shortens s to max runes, appending an ellipsis when it
// cuts.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// Initials returns up to two uppercase initials for the avatar
// placeholder.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "?"
	}
	out := strings.ToUpper(string([]rune(fields[0])[0]))
	if len(fields) > 1 {
		out += strings.ToUpper(string([]rune(fields[len(fields)-1])[0]))
	}
	return out
}

// PostPermalink returns the in-app path for a post page.
func PostPermalink(postID string) string {
	return "/posts/" + postID
}

// ProfilePermalink returns the in-app path for a user's profile.
func ProfilePermalink(userID string) string {
	return "/users/" + userID
}

// PluralS is the template helper for naive English plurals.
func PluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
