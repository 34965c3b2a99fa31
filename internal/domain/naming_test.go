package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFamilyDimension(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		family    string
		dimension string
	}{
		{"standard name", "COVOR FLORENCE 080x150cm", "FLORENCE", "080x150"},
		{"lowercase prefix", "covor alina 200x300cm", "ALINA", "200x300"},
		{"no dimension", "COVOR FLORENCE", "", ""},
		{"not a rug", "PERNA DECOR 040x040cm", "", ""},
		{"empty name", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, dimension := ExtractFamilyDimension(tt.input)
			assert.Equal(t, tt.family, family)
			assert.Equal(t, tt.dimension, dimension)
		})
	}
}

func TestDimensionCoefficient(t *testing.T) {
	assert.Equal(t, 1.15, DimensionCoefficient("080x150"))
	assert.Equal(t, 1.0, DimensionCoefficient("160x230"))
	assert.Equal(t, 0.80, DimensionCoefficient("300x400"))
	assert.Equal(t, 1.0, DimensionCoefficient("999x999"), "unknown width is neutral")
	assert.Equal(t, 1.0, DimensionCoefficient(""))
}

func TestArticleDerivedFields(t *testing.T) {
	a := &Article{
		Name:           "COVOR FLORENCE 080x150cm",
		Cost:           25,
		StockAvailable: 10,
		StockInTransit: 4,
		StockStores:    3,
	}

	assert.Equal(t, "FLORENCE", a.Family())
	assert.Equal(t, "080x150", a.Dimension())
	// Store stock is displayed, not counted toward coverage.
	assert.Equal(t, 14.0, a.TotalStock())
	assert.Equal(t, 350.0, a.StockValue())
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-03", MonthKey(2025, 3))
	assert.Equal(t, "2024-12", MonthKey(2024, 12))
}
