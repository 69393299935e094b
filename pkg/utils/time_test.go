package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeDuration(t *testing.T) {
	assert.Equal(t, "1.50s", FormatTimeDuration(1.5))
	assert.Equal(t, "2m 5s", FormatTimeDuration(125))
	assert.Equal(t, "1h 1m 1s", FormatTimeDuration(3661))
}

func TestFormatSegmentSpan(t *testing.T) {
	assert.Equal(t, "[0.0s - 2.5s]", FormatSegmentSpan(0, 2.46))
	assert.Equal(t, "[12.3s - 15.0s]", FormatSegmentSpan(12.34, 15))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.50 KB", FormatFileSize(1536))
	assert.Equal(t, "2.00 MB", FormatFileSize(2*1024*1024))
	assert.Equal(t, "1.00 GB", FormatFileSize(1024*1024*1024))
}
