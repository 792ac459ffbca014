package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all HTML from user-supplied text. Habit names and
// descriptions are plain text; anything markup-shaped is an attack or a
// paste accident.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
