package domain

import "strings"

// All is the pass-through value accepted by every filter dimension.
const All = "All"

// Category is the kind of property being listed. It travels as "type" on the wire.
type Category string

const (
	CategoryFlats          Category = "Flats"
	CategoryBuilderFloors  Category = "Builder Floors"
	CategoryHouseVillas    Category = "House Villas"
	CategoryPlots          Category = "Plots"
	CategoryFarmhouses     Category = "Farmhouses"
	CategoryHotels         Category = "Hotels"
	CategoryLands          Category = "Lands"
	CategoryOfficeSpaces   Category = "Office Spaces"
	CategoryHostels        Category = "Hostels"
	CategoryShopsShowrooms Category = "Shops Showrooms"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFlats,
	CategoryBuilderFloors,
	CategoryHouseVillas,
	CategoryPlots,
	CategoryFarmhouses,
	CategoryHotels,
	CategoryLands,
	CategoryOfficeSpaces,
	CategoryHostels,
	CategoryShopsShowrooms,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s case-insensitively against the known categories.
// Unknown values are returned trimmed but otherwise untouched.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return Category(s)
}

// ListingKind says whether the property is offered for rent or for sale.
// It travels as "propertyType" on the wire.
type ListingKind string

const (
	ListingRent ListingKind = "Rent"
	ListingSale ListingKind = "Sale"
)

func (k ListingKind) Valid() bool {
	return k == ListingRent || k == ListingSale
}

func ParseListingKind(s string) ListingKind {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(ListingRent)):
		return ListingRent
	case strings.EqualFold(s, string(ListingSale)):
		return ListingSale
	}
	return ListingKind(s)
}
