package enums

import "fmt"

// ProductCategory is the closed set of catalog categories.
type ProductCategory string

const (
	ProductCategoryElectronics    ProductCategory = "Electronics"
	ProductCategoryFood           ProductCategory = "Food"
	ProductCategoryClothing       ProductCategory = "Clothing"
	ProductCategoryKitchen        ProductCategory = "Kitchen"
	ProductCategoryBeauty         ProductCategory = "Beauty"
	ProductCategorySports         ProductCategory = "Sports"
	ProductCategoryToysAndGames   ProductCategory = "ToysandGames"
	ProductCategoryBooks          ProductCategory = "Books"
	ProductCategoryAutomotive     ProductCategory = "Automotive"
	ProductCategoryFitness        ProductCategory = "Fitness"
	ProductCategoryOfficeSupplies ProductCategory = "OfficeSupplies"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryFood,
	ProductCategoryClothing,
	ProductCategoryKitchen,
	ProductCategoryBeauty,
	ProductCategorySports,
	ProductCategoryToysAndGames,
	ProductCategoryBooks,
	ProductCategoryAutomotive,
	ProductCategoryFitness,
	ProductCategoryOfficeSupplies,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
