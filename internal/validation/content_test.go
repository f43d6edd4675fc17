package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePostContent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"Valid", "finished dune last night, incredible", false},
		{"Empty", "", true},
		{"At Limit", strings.Repeat("a", 5000), false},
		{"Over Limit", strings.Repeat("a", 5001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostContent(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCommentContent(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateCommentContent("same, the ending wrecked me"))
	assert.Error(t, ValidateCommentContent(""))
	assert.Error(t, ValidateCommentContent(strings.Repeat("a", 2001)))
}

func TestValidateMediaTitle(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateMediaTitle("Disco Elysium"))
	assert.Error(t, ValidateMediaTitle(""))
	assert.Error(t, ValidateMediaTitle(strings.Repeat("x", 301)))
}

func TestValidateRating(t *testing.T) {
	t.Parallel()
	for r := 0; r <= 10; r++ {
		assert.NoError(t, ValidateRating(r))
	}
	assert.Error(t, ValidateRating(-1))
	assert.Error(t, ValidateRating(11))
}

func TestValidateReview(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateReview(""))
	assert.NoError(t, ValidateReview("solid"))
	assert.Error(t, ValidateReview(strings.Repeat("a", 10001)))
}
