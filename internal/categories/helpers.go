package categories

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	slugSpacing  = regexp.MustCompile(`[\s_-]+`)
)

// GenerateSlug converts a category name to a URL-friendly slug
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = slugSpacing.ReplaceAllString(slug, "-")

	// Trim hyphens from start and end
	return strings.Trim(slug, "-")
}
