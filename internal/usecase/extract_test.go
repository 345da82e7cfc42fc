package usecase

import (
	"testing"

	"github.com/nutriscanner/backend/internal/domain"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		want    string
	}{
		{"uses product name", domain.Product{ProductName: "Dark Chocolate"}, "Dark Chocolate"},
		{"falls back when absent", domain.Product{}, "Unknown product"},
		{"falls back when blank", domain.Product{ProductName: "   "}, "Unknown product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractName(&tt.product); got != tt.want {
				t.Errorf("ExtractName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractNutriScore(t *testing.T) {
	tests := []struct {
		name      string
		grade     string
		wantGrade string
		wantLabel string
		wantIndex int
	}{
		{"lowercase a", "a", "a", "A", 0},
		{"mixed case B", "B", "b", "B", 1},
		{"uppercase E", "E", "e", "E", 4},
		{"padded c", " c ", "c", "C", 2},
		{"absent", "", "", "N/A", -1},
		{"out of range", "x", "", "N/A", -1},
		{"multi-letter junk", "unknown", "", "N/A", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNutriScore(tt.grade)
			if got.Grade != tt.wantGrade || got.Label != tt.wantLabel || got.ScaleIndex != tt.wantIndex {
				t.Errorf("ExtractNutriScore(%q) = %+v, want grade=%q label=%q index=%d",
					tt.grade, got, tt.wantGrade, tt.wantLabel, tt.wantIndex)
			}
		})
	}
}

func TestExtractNovaGroup(t *testing.T) {
	tests := []struct {
		name string
		nova int
		want string
	}{
		{"group 1", 1, "1"},
		{"group 4", 4, "4"},
		{"absent", 0, "?"},
		{"out of range", 9, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Product{NovaGroup: tt.nova}
			if got := ExtractNovaGroup(&p); got != tt.want {
				t.Errorf("ExtractNovaGroup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNutrientValue(t *testing.T) {
	nutriments := map[string]any{
		"sugars_100g":        12.5,
		"fat_100g":           "3.4",
		"energy-kcal_100g":   "12,5",
		"proteins_100g":      "not-a-number",
		"carbohydrates_100g": nil,
	}

	tests := []struct {
		name      string
		key       string
		want      float64
		wantFound bool
	}{
		{"float value", "sugars_100g", 12.5, true},
		{"dot decimal string", "fat_100g", 3.4, true},
		{"comma decimal string", "energy-kcal_100g", 12.5, true},
		{"unparseable string", "proteins_100g", 0, false},
		{"null value", "carbohydrates_100g", 0, false},
		{"absent key", "salt_100g", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := NutrientValue(nutriments, tt.key)
			if found != tt.wantFound || got != tt.want {
				t.Errorf("NutrientValue(%q) = (%v, %v), want (%v, %v)", tt.key, got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestExtractNutrient(t *testing.T) {
	nutriments := map[string]any{"sugars_100g": "12,5"}

	got := ExtractNutrient(nutriments, "sugars_100g")
	if !got.Known || got.Value != 12.5 || got.Display != "12.5" {
		t.Errorf("ExtractNutrient() = %+v, want known 12.5 displayed as 12.5", got)
	}

	missing := ExtractNutrient(nutriments, "fat_100g")
	if missing.Known || missing.Display != placeholderDash {
		t.Errorf("ExtractNutrient() for missing key = %+v, want unknown placeholder", missing)
	}
}

// Every extractor must tolerate a record with no nutrients at all.
func TestBuildProductView_EmptyRecord(t *testing.T) {
	view := BuildProductView(&domain.Product{}, "montenegro", "en")

	if view.Name != "Unknown product" {
		t.Errorf("Name = %q, want Unknown product", view.Name)
	}
	if view.Brand != placeholderDash {
		t.Errorf("Brand = %q, want placeholder", view.Brand)
	}
	if view.NutriScore.Label != "N/A" || view.NutriScore.ScaleIndex != -1 {
		t.Errorf("NutriScore = %+v, want N/A at -1", view.NutriScore)
	}
	if view.NovaGroup != "?" {
		t.Errorf("NovaGroup = %q, want ?", view.NovaGroup)
	}
	if view.Availability != domain.AvailabilityUnknown {
		t.Errorf("Availability = %q, want unknown", view.Availability)
	}
	for name, n := range map[string]domain.Nutrient{
		"energy":        view.EnergyKcal,
		"sugars":        view.Sugars,
		"fat":           view.Fat,
		"saturated fat": view.SaturatedFat,
		"salt":          view.Salt,
		"carbohydrates": view.Carbohydrates,
		"proteins":      view.Proteins,
	} {
		if n.Known || n.Display != placeholderDash {
			t.Errorf("%s = %+v, want unknown placeholder", name, n)
		}
	}
}

func TestExtractAvailability(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		want    domain.Availability
	}{
		{
			"country tag match",
			domain.Product{CountriesTags: []string{"en:france", "en:montenegro"}},
			domain.AvailabilityYes,
		},
		{
			"country tag no match",
			domain.Product{CountriesTags: []string{"en:france"}},
			domain.AvailabilityNo,
		},
		{
			"tag match is case-insensitive",
			domain.Product{CountriesTags: []string{"en:Montenegro"}},
			domain.AvailabilityYes,
		},
		{
			"free-text fallback match",
			domain.Product{Countries: "France, Montenegro"},
			domain.AvailabilityYes,
		},
		{
			"free-text fallback no match",
			domain.Product{Countries: "France, Germany"},
			domain.AvailabilityNo,
		},
		{
			"no country data is unknown",
			domain.Product{},
			domain.AvailabilityUnknown,
		},
		{
			"blank free-text is unknown",
			domain.Product{Countries: " , "},
			domain.AvailabilityUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAvailability(&tt.product, "montenegro"); got != tt.want {
				t.Errorf("ExtractAvailability() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractCountries(t *testing.T) {
	p := domain.Product{CountriesTags: []string{"en:france", "en:montenegro"}}
	if got := ExtractCountries(&p); got != "France, Montenegro" {
		t.Errorf("ExtractCountries() = %q, want France, Montenegro", got)
	}

	empty := domain.Product{}
	if got := ExtractCountries(&empty); got != placeholderDash {
		t.Errorf("ExtractCountries() for empty = %q, want placeholder", got)
	}
}

func TestExtractImageURL(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		want    string
	}{
		{
			"front display in requested language",
			domain.Product{
				SelectedImages: &domain.SelectedImages{
					Front: domain.ImageSet{Display: map[string]string{"en": "https://img/en.jpg", "fr": "https://img/fr.jpg"}},
				},
			},
			"https://img/en.jpg",
		},
		{
			"any language when requested one is absent",
			domain.Product{
				SelectedImages: &domain.SelectedImages{
					Front: domain.ImageSet{Display: map[string]string{"fr": "https://img/fr.jpg"}},
				},
			},
			"https://img/fr.jpg",
		},
		{
			"flat front url fallback",
			domain.Product{ImageFrontURL: "https://img/front.jpg", ImageURL: "https://img/any.jpg"},
			"https://img/front.jpg",
		},
		{
			"flat url fallback",
			domain.Product{ImageURL: "https://img/any.jpg"},
			"https://img/any.jpg",
		},
		{
			"no image at all",
			domain.Product{},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractImageURL(&tt.product, "en"); got != tt.want {
				t.Errorf("ExtractImageURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasLabel(t *testing.T) {
	p := domain.Product{LabelsTags: []string{"en:vegan", "en:Gluten-Free", "organic"}}

	if !HasLabel(&p, "vegan") {
		t.Error("expected vegan label to match")
	}
	if !HasLabel(&p, "gluten-free") {
		t.Error("expected gluten-free label to match case-insensitively")
	}
	if !HasLabel(&p, "organic") {
		t.Error("expected un-namespaced label to match")
	}
	if HasLabel(&p, "no-lactose") {
		t.Error("did not expect no-lactose label")
	}
}
