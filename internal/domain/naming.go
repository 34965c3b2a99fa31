package domain

import (
	"regexp"
	"strings"
)

// Catalog names follow the convention "COVOR <FAMILY> <W>x<L>cm", e.g.
// "COVOR FLORENCE 080x150cm". Family and dimension are parsed out of the
// name; articles outside the convention get empty values and the neutral
// coefficient.
var namePattern = regexp.MustCompile(`(?i)^COVOR\s+(\w+)\s+(\d+)x(\d+)`)

// Safety-stock coefficients keyed by the leading (width) dimension token.
// Small sizes turn over faster and get extra buffer; large sizes tie up
// capital and get less.
var dimensionCoefficients = map[string]float64{
	"060": 1.15,
	"080": 1.15,
	"140": 1.0,
	"160": 1.0,
	"200": 0.80,
	"250": 0.80,
	"300": 0.80,
}

// ExtractFamilyDimension parses a product name into its family and dimension
// token, e.g. "COVOR FLORENCE 080x150cm" -> ("FLORENCE", "080x150").
// Returns ("", "") when the name does not match the convention.
func ExtractFamilyDimension(name string) (family, dimension string) {
	if name == "" {
		return "", ""
	}
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return "", ""
	}
	return strings.ToUpper(m[1]), m[2] + "x" + m[3]
}

// DimensionCoefficient returns the safety-stock multiplier for a dimension
// token like "080x150". Unknown or missing dimensions get 1.0.
func DimensionCoefficient(dimension string) float64 {
	if dimension == "" {
		return 1.0
	}
	width := dimension
	if i := strings.IndexByte(dimension, 'x'); i >= 0 {
		width = dimension[:i]
	}
	if c, ok := dimensionCoefficients[width]; ok {
		return c
	}
	return 1.0
}
