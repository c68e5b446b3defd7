package core

import "sort"

// Category is a top-level App Store genre.
type Category struct {
	Name string `json:"name" yaml:"name"`
	ID   int    `json:"id" yaml:"id"`
}

var categoryIDs = map[string]int{
	"BOOKS":                    6018,
	"BUSINESS":                 6000,
	"CATALOGS":                 6022,
	"DEVELOPER_TOOLS":          6026,
	"EDUCATION":                6017,
	"ENTERTAINMENT":            6016,
	"FINANCE":                  6015,
	"FOOD_AND_DRINK":           6023,
	"GAMES":                    6014,
	"GRAPHICS_AND_DESIGN":      6027,
	"HEALTH_AND_FITNESS":       6013,
	"LIFESTYLE":                6012,
	"MAGAZINES_AND_NEWSPAPERS": 6021,
	"MEDICAL":                  6020,
	"MUSIC":                    6011,
	"NAVIGATION":               6010,
	"NEWS":                     6009,
	"PHOTO_AND_VIDEO":          6008,
	"PRODUCTIVITY":             6007,
	"REFERENCE":                6006,
	"SHOPPING":                 6024,
	"SOCIAL_NETWORKING":        6005,
	"SPORTS":                   6004,
	"STICKERS":                 6025,
	"TRAVEL":                   6003,
	"UTILITIES":                6002,
	"WEATHER":                  6001,
}

// Categories returns the genre table ordered by id.
func Categories() []Category {
	result := make([]Category, 0, len(categoryIDs))
	for name, id := range categoryIDs {
		result = append(result, Category{Name: name, ID: id})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
