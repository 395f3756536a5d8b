package plotting

import (
	"image/color"

	"genex/pkg/contracts/domain"
)

// nutrientPalette gives each limiting nutrient a stable color across all
// plots.
var nutrientPalette = map[domain.Nutrient]color.RGBA{
	domain.NutrientGlucose:   {R: 31, G: 119, B: 180, A: 255},
	domain.NutrientAmmonium:  {R: 255, G: 127, B: 14, A: 255},
	domain.NutrientPhosphate: {R: 44, G: 160, B: 44, A: 255},
	domain.NutrientSulfate:   {R: 214, G: 39, B: 40, A: 255},
	domain.NutrientLeucine:   {R: 148, G: 103, B: 189, A: 255},
	domain.NutrientUracil:    {R: 140, G: 86, B: 75, A: 255},
}

// NutrientColor returns the palette color for a nutrient, defaulting to
// gray for unknown codes.
func NutrientColor(n domain.Nutrient) color.RGBA {
	if c, ok := nutrientPalette[n]; ok {
		return c
	}
	return color.RGBA{R: 127, G: 127, B: 127, A: 255}
}
