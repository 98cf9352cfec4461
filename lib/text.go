package lib

import (
	"github.com/gosimple/slug"
)

func Slugify(text string) string {
	return slug.Make(text)
}

// TruncateString shortens text to max characters, appending an
// ellipsis when truncation happened.
func TruncateString(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
