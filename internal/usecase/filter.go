package usecase

import (
	"strings"

	"github.com/nutriscanner/backend/internal/domain"
)

// MatchesFilters applies every set criterion to a raw record, AND-combined.
// Numeric bounds are strict: a record missing the nutrient (or carrying an
// unparseable value) fails the bound rather than passing as unknown.
func MatchesFilters(p *domain.Product, criteria *domain.FilterCriteria, country string) bool {
	bounds := []struct {
		key string
		max *float64
	}{
		{KeySugars, criteria.MaxSugars},
		{KeyFat, criteria.MaxFat},
		{KeyEnergyKcal, criteria.MaxEnergyKcal},
		{KeyCarbohydrates, criteria.MaxCarbs},
		{KeyProteins, criteria.MaxProteins},
	}
	for _, bound := range bounds {
		if bound.max == nil {
			continue
		}
		value, ok := NutrientValue(p.Nutriments, bound.key)
		if !ok || value > *bound.max {
			return false
		}
	}

	if criteria.Vegan && !HasLabel(p, "vegan") {
		return false
	}
	if criteria.GlutenFree && !HasLabel(p, "gluten-free") {
		return false
	}
	// OFF tags lactose-free products as "no-lactose"; accept both spellings
	if criteria.LactoseFree && !HasLabel(p, "no-lactose") && !HasLabel(p, "lactose-free") {
		return false
	}

	if criteria.AvailableOnly && ExtractAvailability(p, country) != domain.AvailabilityYes {
		return false
	}

	if len(criteria.Grades) > 0 && !gradeInSet(p.NutritionGrades, criteria.Grades) {
		return false
	}

	return true
}

// FilterProducts keeps the records matching the criteria, preserving order.
func FilterProducts(products []domain.Product, criteria *domain.FilterCriteria, country string) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for i := range products {
		if MatchesFilters(&products[i], criteria, country) {
			filtered = append(filtered, products[i])
		}
	}
	return filtered
}

func gradeInSet(grade string, set []string) bool {
	g := strings.ToLower(strings.TrimSpace(grade))
	for _, want := range set {
		if strings.ToLower(strings.TrimSpace(want)) == g {
			return true
		}
	}
	return false
}

// Paginate slices the filtered views into one fixed-size page. A page beyond
// range yields an empty slice, not an error.
func Paginate(views []domain.ProductView, page, pageSize int) domain.ResultPage {
	if page < 1 {
		page = 1
	}

	total := len(views)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		return domain.ResultPage{
			Products:   []domain.ProductView{},
			Page:       page,
			TotalPages: totalPages,
			TotalCount: total,
		}
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return domain.ResultPage{
		Products:   views[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
	}
}
