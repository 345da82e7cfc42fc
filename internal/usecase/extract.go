package usecase

import (
	"strconv"
	"strings"

	"github.com/nutriscanner/backend/internal/domain"
)

// placeholderDash is what the UI renders for any missing value.
const placeholderDash = "—"

const nutriScoreLetters = "abcde"

// Nutriment keys this service reads, per 100g.
const (
	KeyEnergyKcal    = "energy-kcal_100g"
	KeySugars        = "sugars_100g"
	KeyFat           = "fat_100g"
	KeySaturatedFat  = "saturated-fat_100g"
	KeySalt          = "salt_100g"
	KeyCarbohydrates = "carbohydrates_100g"
	KeyProteins      = "proteins_100g"
)

// BuildProductView normalizes a raw product record into its display-ready
// shape. Every field extraction is total: missing or malformed data yields a
// placeholder, never an error.
func BuildProductView(p *domain.Product, country, language string) domain.ProductView {
	return domain.ProductView{
		Barcode:      p.Code,
		Name:         ExtractName(p),
		Brand:        orDash(p.Brands),
		NutriScore:   ExtractNutriScore(p.NutritionGrades),
		NovaGroup:    ExtractNovaGroup(p),
		ImageURL:     ExtractImageURL(p, language),
		Allergens:    orDash(p.Allergens),
		Countries:    ExtractCountries(p),
		Availability: ExtractAvailability(p, country),

		EnergyKcal:    ExtractNutrient(p.Nutriments, KeyEnergyKcal),
		Sugars:        ExtractNutrient(p.Nutriments, KeySugars),
		Fat:           ExtractNutrient(p.Nutriments, KeyFat),
		SaturatedFat:  ExtractNutrient(p.Nutriments, KeySaturatedFat),
		Salt:          ExtractNutrient(p.Nutriments, KeySalt),
		Carbohydrates: ExtractNutrient(p.Nutriments, KeyCarbohydrates),
		Proteins:      ExtractNutrient(p.Nutriments, KeyProteins),
	}
}

// ExtractName returns the product name or the unknown-product fallback.
func ExtractName(p *domain.Product) string {
	if name := strings.TrimSpace(p.ProductName); name != "" {
		return name
	}
	return "Unknown product"
}

// ExtractNutriScore folds a raw grade to lowercase and positions it on the
// five-segment scale. Anything outside a-e renders as N/A with index -1.
func ExtractNutriScore(grade string) domain.NutriScore {
	g := strings.ToLower(strings.TrimSpace(grade))
	if len(g) == 1 {
		if idx := strings.IndexByte(nutriScoreLetters, g[0]); idx >= 0 {
			return domain.NutriScore{
				Grade:      g,
				Label:      strings.ToUpper(g),
				ScaleIndex: idx,
			}
		}
	}
	return domain.NutriScore{Label: "N/A", ScaleIndex: -1}
}

// ExtractNovaGroup passes the NOVA group through, or "?" when absent.
func ExtractNovaGroup(p *domain.Product) string {
	if p.NovaGroup >= 1 && p.NovaGroup <= 4 {
		return strconv.Itoa(p.NovaGroup)
	}
	return "?"
}

// ExtractNutrient normalizes one nutriment entry. Values arrive as floats or
// as numeric strings with comma or dot decimal separators.
func ExtractNutrient(nutriments map[string]any, key string) domain.Nutrient {
	if v, ok := NutrientValue(nutriments, key); ok {
		return domain.Nutrient{
			Value:   v,
			Known:   true,
			Display: strconv.FormatFloat(v, 'f', 1, 64),
		}
	}
	return domain.Nutrient{Display: placeholderDash}
}

// NutrientValue coerces a nutriments map entry to a float. The second return
// is false when the key is absent or the value cannot be parsed.
func NutrientValue(nutriments map[string]any, key string) (float64, bool) {
	raw, ok := nutriments[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		normalized := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		if f, err := strconv.ParseFloat(normalized, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// ExtractAvailability derives the three-valued regional availability flag.
// Country tags win; the free-text countries field is the fallback; neither
// present means unknown, not unavailable.
func ExtractAvailability(p *domain.Product, country string) domain.Availability {
	names := countryNames(p)
	if len(names) == 0 {
		return domain.AvailabilityUnknown
	}
	target := strings.ToLower(strings.TrimSpace(country))
	for _, name := range names {
		if name == target {
			return domain.AvailabilityYes
		}
	}
	return domain.AvailabilityNo
}

// countryNames returns the normalized country names of a record, lowercased
// with namespace prefixes stripped.
func countryNames(p *domain.Product) []string {
	if len(p.CountriesTags) > 0 {
		names := make([]string, 0, len(p.CountriesTags))
		for _, tag := range p.CountriesTags {
			if name := stripTagPrefix(tag); name != "" {
				names = append(names, name)
			}
		}
		return names
	}

	var names []string
	for _, part := range strings.Split(p.Countries, ",") {
		if name := strings.ToLower(strings.TrimSpace(part)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ExtractCountries renders the country tags as a readable comma-joined line.
func ExtractCountries(p *domain.Product) string {
	if len(p.CountriesTags) == 0 {
		return placeholderDash
	}
	names := make([]string, 0, len(p.CountriesTags))
	for _, tag := range p.CountriesTags {
		if name := stripTagPrefix(tag); name != "" {
			names = append(names, titleCase(name))
		}
	}
	if len(names) == 0 {
		return placeholderDash
	}
	return strings.Join(names, ", ")
}

// ExtractImageURL picks the best image: the front display variant in the
// requested language, else any language, else the flat URL fields.
func ExtractImageURL(p *domain.Product, language string) string {
	if p.SelectedImages != nil {
		display := p.SelectedImages.Front.Display
		if u := display[language]; u != "" {
			return u
		}
		for _, u := range display {
			if u != "" {
				return u
			}
		}
	}
	if p.ImageFrontURL != "" {
		return p.ImageFrontURL
	}
	return p.ImageURL
}

// HasLabel reports whether the record carries the given normalized label tag
// (namespace prefixes like "en:" are ignored).
func HasLabel(p *domain.Product, label string) bool {
	for _, tag := range p.LabelsTags {
		if stripTagPrefix(tag) == label {
			return true
		}
	}
	return false
}

// stripTagPrefix turns "en:montenegro" into "montenegro", lowercased.
func stripTagPrefix(tag string) string {
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		tag = tag[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(tag))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholderDash
	}
	return s
}

// titleCase capitalizes the first letter of each hyphen- or space-separated
// word, for country display only (ASCII names from OFF tags).
func titleCase(s string) string {
	b := []byte(s)
	upNext := true
	for i := 0; i < len(b); i++ {
		c := b[i]
		if upNext && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		upNext = c == ' ' || c == '-'
	}
	return string(b)
}
