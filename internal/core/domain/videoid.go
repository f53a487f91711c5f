package domain

import "strings"

// NormalizeVideoID extracts the video identifier from the supported URL
// shapes (youtu.be short links, watch?v= and shorts/). Anything else is
// returned unchanged.
func NormalizeVideoID(raw string) string {
	var id string
	switch {
	case strings.Contains(raw, "youtu.be/"):
		// Only the short-link host counts; share links carry
		// feature=youtu.be as a query value.
		_, id, _ = strings.Cut(raw, "youtu.be/")
		id = id[strings.LastIndex(id, "/")+1:]
		id = cutAt(id, "?")
	case strings.Contains(raw, "watch?v="):
		_, id, _ = strings.Cut(raw, "watch?v=")
		id = cutAt(id, "&")
	case strings.Contains(raw, "shorts/"):
		_, id, _ = strings.Cut(raw, "shorts/")
		id = cutAt(id, "?")
	default:
		return raw
	}
	if id == "" {
		return raw
	}
	return id
}

func cutAt(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}
