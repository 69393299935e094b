package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOptional(t *testing.T) {
	v := 1.23456
	assert.Equal(t, "1.235", FormatOptional(&v))
	assert.Equal(t, "-", FormatOptional(nil))
}

func TestValueOrZero(t *testing.T) {
	v := 2.5
	assert.Equal(t, 2.5, ValueOrZero(&v))
	assert.Equal(t, 0.0, ValueOrZero(nil))
}
