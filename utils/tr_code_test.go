package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenOrderNumber(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-7-2026-000042", GenOrderNumber(7, 42, at))
	assert.Equal(t, "ORD-1-2026-1234567", GenOrderNumber(1, 1234567, at))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "joe-s-pizza-grill", Slugify("Joe's Pizza & Grill"))
	assert.Equal(t, "demo-bistro", Slugify("  Demo   Bistro!! "))
	assert.Equal(t, "", Slugify("!!!"))
}
