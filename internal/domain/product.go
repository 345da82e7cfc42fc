package domain

// Product is the subset of an Open Food Facts product record this service
// reads. Nutriments stays a loose map: OFF delivers nutrient values as floats
// or strings depending on the product, and most fields are simply absent.
type Product struct {
	Code            string          `json:"code"`
	ProductName     string          `json:"product_name"`
	Brands          string          `json:"brands"`
	NutritionGrades string          `json:"nutrition_grades"`
	NovaGroup       int             `json:"nova_group"`
	Nutriments      map[string]any  `json:"nutriments"`
	LabelsTags      []string        `json:"labels_tags"`
	CountriesTags   []string        `json:"countries_tags"`
	Countries       string          `json:"countries"`
	Allergens       string          `json:"allergens"`
	SelectedImages  *SelectedImages `json:"selected_images,omitempty"`
	ImageFrontURL   string          `json:"image_front_url"`
	ImageURL        string          `json:"image_url"`
}

// SelectedImages holds the language-keyed image variants OFF curates per product.
type SelectedImages struct {
	Front ImageSet `json:"front"`
}

// ImageSet maps language code to image URL for each size variant.
type ImageSet struct {
	Display map[string]string `json:"display"`
	Small   map[string]string `json:"small"`
	Thumb   map[string]string `json:"thumb"`
}

// ProductResponse is the wrapper returned by the OFF get-product endpoint.
// Status is 1 when the barcode is known, 0 otherwise.
type ProductResponse struct {
	Code          string   `json:"code"`
	Status        int      `json:"status"`
	StatusVerbose string   `json:"status_verbose"`
	Product       *Product `json:"product"`
}

// SearchResponse is the response from the OFF search endpoint.
// Count is the approximate total match count upstream, not the batch size.
type SearchResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
