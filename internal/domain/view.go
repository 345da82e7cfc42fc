package domain

// Availability is the three-valued regional availability flag. A product with
// no country information at all is unknown, not unavailable.
type Availability string

const (
	AvailabilityYes     Availability = "yes"
	AvailabilityNo      Availability = "no"
	AvailabilityUnknown Availability = "unknown"
)

// Nutrient is a single normalized per-100g nutrient value.
type Nutrient struct {
	Value   float64 `json:"value"`
	Known   bool    `json:"known"`
	Display string  `json:"display"`
}

// NutriScore is the normalized Nutri-Score grade. ScaleIndex positions the
// grade on the five-segment banner (a=0 … e=4, -1 when unknown).
type NutriScore struct {
	Grade      string `json:"grade"`
	Label      string `json:"label"`
	ScaleIndex int    `json:"scaleIndex"`
}

// ProductView is the display-ready representation of a product record.
type ProductView struct {
	Barcode      string       `json:"barcode"`
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	NutriScore   NutriScore   `json:"nutriScore"`
	NovaGroup    string       `json:"novaGroup"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	Allergens    string       `json:"allergens"`
	Countries    string       `json:"countries"`
	Availability Availability `json:"availability"`

	EnergyKcal    Nutrient `json:"energyKcal"`
	Sugars        Nutrient `json:"sugars"`
	Fat           Nutrient `json:"fat"`
	SaturatedFat  Nutrient `json:"saturatedFat"`
	Salt          Nutrient `json:"salt"`
	Carbohydrates Nutrient `json:"carbohydrates"`
	Proteins      Nutrient `json:"proteins"`
}

// FilterCriteria captures a search request. Nil bounds and false flags mean
// the corresponding filter is not applied.
type FilterCriteria struct {
	Query         string   `json:"query"`
	Category      string   `json:"category"`
	MaxSugars     *float64 `json:"maxSugars,omitempty"`
	MaxFat        *float64 `json:"maxFat,omitempty"`
	MaxEnergyKcal *float64 `json:"maxEnergyKcal,omitempty"`
	MaxCarbs      *float64 `json:"maxCarbs,omitempty"`
	MaxProteins   *float64 `json:"maxProteins,omitempty"`
	Vegan         bool     `json:"vegan"`
	LactoseFree   bool     `json:"lactoseFree"`
	GlutenFree    bool     `json:"glutenFree"`
	AvailableOnly bool     `json:"availableOnly"`
	Grades        []string `json:"grades,omitempty"`
	Page          int      `json:"page"`
}

// ResultPage is one fixed-size page of filtered results, in upstream order.
type ResultPage struct {
	Products   []ProductView `json:"products"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	TotalCount int           `json:"totalCount"`
}
