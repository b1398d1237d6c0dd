package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermitSequence(t *testing.T) {
	cases := map[string]int{
		"BP-2024-00007":  7,
		"BP-2023-12345":  12345,
		"BP-2024-123456": 0,
		"BP-2024-0001":   0,
		"xBP-2024-00001": 0,
		"BP-2024-00001 ": 0,
		"legacy-12":      0,
		"":               0,
	}
	for number, want := range cases {
		assert.Equal(t, want, PermitSequence(number), number)
	}
}

func TestFormatPermitNumberRoundTrips(t *testing.T) {
	number := FormatPermitNumber(2024, 42)
	assert.Equal(t, "BP-2024-00042", number)
	assert.Equal(t, 42, PermitSequence(number))
}
