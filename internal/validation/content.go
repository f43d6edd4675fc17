package validation

import (
	"fmt"
	"strings"
)

const (
	maxPostLength    = 5000
	maxCommentLength = 2000
	maxTitleLength   = 300
	maxReviewLength  = 10000
)

// ValidatePostContent checks post body length bounds.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("post content cannot be empty")
	}
	if len(content) > maxPostLength {
		return fmt.Errorf("post content must not exceed %d characters", maxPostLength)
	}
	return nil
}

// ValidateCommentContent checks comment body length bounds.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	if len(content) > maxCommentLength {
		return fmt.Errorf("comment must not exceed %d characters", maxCommentLength)
	}
	return nil
}

// ValidateMediaTitle checks a logged entry title.
func ValidateMediaTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("title must not exceed %d characters", maxTitleLength)
	}
	return nil
}

// ValidateRating checks the 0-10 rating scale (0 = unrated).
func ValidateRating(rating int) error {
	if rating < 0 || rating > 10 {
		return fmt.Errorf("rating must be between 0 and 10")
	}
	return nil
}

// ValidateReview checks review length bounds. Empty reviews are fine.
func ValidateReview(review string) error {
	if len(review) > maxReviewLength {
		return fmt.Errorf("review must not exceed %d characters", maxReviewLength)
	}
	return nil
}
