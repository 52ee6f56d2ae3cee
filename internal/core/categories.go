package core

// Category is a fixed classification tag for income or expense
// transactions. The registry is static; there is no user-defined taxonomy.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var expenseCategories = []Category{
	{ID: "food", Name: "Food & Dining", Color: "category-food"},
	{ID: "transport", Name: "Transportation", Color: "category-transport"},
	{ID: "entertainment", Name: "Entertainment", Color: "category-entertainment"},
	{ID: "shopping", Name: "Shopping", Color: "category-shopping"},
	{ID: "utilities", Name: "Utilities", Color: "category-utilities"},
	{ID: "healthcare", Name: "Healthcare", Color: "category-healthcare"},
	{ID: "education", Name: "Education", Color: "category-education"},
	{ID: "other", Name: "Other", Color: "category-other"},
}

var incomeCategories = []Category{
	{ID: "salary", Name: "Salary", Color: "category-utilities"},
	{ID: "freelance", Name: "Freelance", Color: "category-education"},
	{ID: "investment", Name: "Investment", Color: "category-entertainment"},
	{ID: "other", Name: "Other Income", Color: "category-other"},
}

// Categories returns the registry entries for the given kind. The returned
// slice is a copy; callers may not mutate the registry.
func Categories(kind Kind) []Category {
	var src []Category
	switch kind {
	case Income:
		src = incomeCategories
	case Expense:
		src = expenseCategories
	default:
		return nil
	}
	return append([]Category(nil), src...)
}

// CategoryByID looks up a registry entry by kind and identifier.
func CategoryByID(kind Kind, id string) (Category, bool) {
	var src []Category
	switch kind {
	case Income:
		src = incomeCategories
	case Expense:
		src = expenseCategories
	}
	for _, c := range src {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryName returns the display name for a category identifier,
// falling back to the identifier itself for unknown entries.
func CategoryName(kind Kind, id string) string {
	if c, ok := CategoryByID(kind, id); ok {
		return c.Name
	}
	return id
}

// ValidCategory reports whether id names a registry entry of the kind.
func ValidCategory(kind Kind, id string) bool {
	_, ok := CategoryByID(kind, id)
	return ok
}
