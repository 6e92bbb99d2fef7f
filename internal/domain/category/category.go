package category

// Category is one entry of the static campus marketplace taxonomy.
// IsService marks service-marketplace categories explicitly instead of
// relying on code-prefix matching.
type Category struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	IsService bool   `json:"is_service"`
}

var categories = []Category{
	{Code: "BOOKS_TEXTBOOKS", Label: "Textbooks"},
	{Code: "BOOKS_FICTION", Label: "Fiction & Non-fiction"},
	{Code: "NOTES_HANDWRITTEN", Label: "Handwritten Notes"},
	{Code: "NOTES_PRINTED", Label: "Printed Notes & Guides"},
	{Code: "ELECTRONICS_LAPTOPS", Label: "Laptops"},
	{Code: "ELECTRONICS_PHONES", Label: "Phones & Tablets"},
	{Code: "ELECTRONICS_ACCESSORIES", Label: "Electronics Accessories"},
	{Code: "FURNITURE_DORM", Label: "Dorm Furniture"},
	{Code: "CLOTHING", Label: "Clothing & Fashion"},
	{Code: "SPORTS_EQUIPMENT", Label: "Sports Equipment"},
	{Code: "BICYCLES", Label: "Bicycles & Scooters"},
	{Code: "MUSICAL_INSTRUMENTS", Label: "Musical Instruments"},
	{Code: "TICKETS_EVENTS", Label: "Event Tickets"},
	{Code: "SERVICES_TUTORING", Label: "Tutoring", IsService: true},
	{Code: "SERVICES_ASSIGNMENT_HELP", Label: "Assignment Help", IsService: true},
	{Code: "SERVICES_CODING", Label: "Coding & Tech Help", IsService: true},
	{Code: "SERVICES_DESIGN", Label: "Design & Creative", IsService: true},
	{Code: "SERVICES_PHOTOGRAPHY", Label: "Photography", IsService: true},
	{Code: "SERVICES_LAUNDRY", Label: "Laundry & Errands", IsService: true},
	{Code: "SERVICES_DELIVERY", Label: "Delivery & Pickup", IsService: true},
	{Code: "MISC", Label: "Everything Else"},
}

var byCode = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Code] = c
	}
	return m
}()

// All returns the full taxonomy in display order.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// GetByCode returns the category for a code.
func GetByCode(code string) (Category, bool) {
	c, ok := byCode[code]
	return c, ok
}

// IsValid reports whether a code exists in the taxonomy.
func IsValid(code string) bool {
	_, ok := byCode[code]
	return ok
}

// IsService reports whether the code belongs to the services marketplace.
// Unknown codes are not services.
func IsService(code string) bool {
	c, ok := byCode[code]
	return ok && c.IsService
}
