package handlers

import (
	"strings"
	"unicode/utf8"

	"marketpress/internal/models"
)

// Validation limits for content and review fields.
const (
	maxTitleLen       = 300
	maxPathLen        = 300
	maxDescriptionLen = 10_000
	maxFileURLLen     = 2_048
	maxReviewBodyLen  = 2_000
	maxCategoryLen    = 100
)

// validateContent checks content inputs and returns the first error found.
func validateContent(title, path, description, fileURL, category string, price float64) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(path) > maxPathLen {
		return "Path is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	if utf8.RuneCountInString(fileURL) > maxFileURLLen {
		return "File URL is too long (max 2,048 characters)."
	}
	if strings.TrimSpace(category) == "" {
		return "Category is required."
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return "Category is too long (max 100 characters)."
	}
	if price < 0 {
		return "Price must not be negative."
	}
	return ""
}

// validateReview checks review inputs and returns the first error found.
func validateReview(rating int, body string) string {
	rv := models.Review{Rating: rating}
	if !rv.ValidRating() {
		return "Rating must be between 1 and 5."
	}
	if utf8.RuneCountInString(body) > maxReviewBodyLen {
		return "Review is too long (max 2,000 characters)."
	}
	return ""
}
