package domain

// categoryGroup places every category under one parent in a two-level
// taxonomy. Distance between categories is the tree path length.
var categoryGroup = map[Category]string{
	CategoryBooks:        "media",
	CategoryMusic:        "media",
	CategoryMovies:       "media",
	CategoryGames:        "tech",
	CategoryElectronics:  "tech",
	CategoryClothing:     "fashion",
	CategoryShoes:        "fashion",
	CategoryAccessories:  "fashion",
	CategoryFurniture:    "home",
	CategoryHomeDecor:    "home",
	CategoryKitchen:      "home",
	CategorySports:       "leisure",
	CategoryToys:         "leisure",
	CategoryCollectibles: "leisure",
	CategoryOther:        "misc",
}

const (
	categoryDistanceSibling = 2
	// MaxCategoryDistance is the path length between categories in different groups.
	MaxCategoryDistance = 4
)

// AllCategories returns every known category in a stable order.
func AllCategories() []Category {
	return []Category{
		CategoryBooks, CategoryMusic, CategoryMovies,
		CategoryGames, CategoryElectronics,
		CategoryClothing, CategoryShoes, CategoryAccessories,
		CategoryFurniture, CategoryHomeDecor, CategoryKitchen,
		CategorySports, CategoryToys, CategoryCollectibles,
		CategoryOther,
	}
}

// CategoryDistance returns 0 for equal categories, 2 for siblings under the
// same group and MaxCategoryDistance otherwise (including unknown values).
func CategoryDistance(a, b Category) int {
	if a == b {
		return 0
	}
	ga, okA := categoryGroup[a]
	gb, okB := categoryGroup[b]
	if okA && okB && ga == gb {
		return categoryDistanceSibling
	}
	return MaxCategoryDistance
}

// NearestCategoryDistance returns the smallest distance from offered to any
// category in desired. An empty desired set yields MaxCategoryDistance.
func NearestCategoryDistance(offered Category, desired []Category) int {
	best := MaxCategoryDistance
	for _, d := range desired {
		if dist := CategoryDistance(offered, d); dist < best {
			best = dist
		}
	}
	return best
}
