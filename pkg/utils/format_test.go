package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1.0825", FormatPrice(1.0825))
	assert.Equal(t, "1950.5", FormatPrice(1950.50))
	assert.Equal(t, "0", FormatPrice(0))
}

func TestFormatLot(t *testing.T) {
	assert.Equal(t, "0.50", FormatLot(0.5))
	assert.Equal(t, "1.00", FormatLot(1))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+2.50%", FormatPercent(2.5))
	assert.Equal(t, "-1.00%", FormatPercent(-1))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestFormatOptionalPrice(t *testing.T) {
	assert.Equal(t, "-", FormatOptionalPrice(nil))
	v := 1.08
	assert.Equal(t, "1.08", FormatOptionalPrice(&v))
}
