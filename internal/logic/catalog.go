package logic

import (
	"sort"

	"github.com/wicketline/score-predictor/internal/models"
)

// Teams the model was trained on
var teams = []string{
	"Australia", "India", "Bangladesh", "New Zealand", "South Africa",
	"England", "West Indies", "Afghanistan", "Pakistan", "Sri Lanka",
}

// Host cities the model was trained on
var cities = []string{
	"Colombo", "Mirpur", "Johannesburg", "Dubai", "Auckland", "Cape Town",
	"London", "Pallekele", "Barbados", "Sydney", "Melbourne", "Durban",
	"St Lucia", "Wellington", "Lauderhill", "Hamilton", "Centurion",
	"Manchester", "Abu Dhabi", "Mumbai", "Nottingham", "Southampton",
	"Mount Maunganui", "Chittagong", "Kolkata", "Lahore", "Delhi",
	"Nagpur", "Chandigarh", "Adelaide", "Bangalore", "St Kitts", "Cardiff",
	"Christchurch", "Trinidad",
}

type catalogService struct {
	catalog models.Catalog
	teams   map[string]struct{}
	cities  map[string]struct{}
}

// NewCatalogService builds the sorted, read-only dropdown catalog
func NewCatalogService() CatalogService {
	return newCatalog(teams, cities)
}

func newCatalog(teamList, cityList []string) *catalogService {
	c := &catalogService{
		catalog: models.Catalog{
			Teams:  sortedCopy(teamList),
			Cities: sortedCopy(cityList),
		},
		teams:  toSet(teamList),
		cities: toSet(cityList),
	}
	return c
}

// Catalog returns copies so callers cannot mutate the shared lists
func (c *catalogService) Catalog() models.Catalog {
	return models.Catalog{
		Teams:  append([]string(nil), c.catalog.Teams...),
		Cities: append([]string(nil), c.catalog.Cities...),
	}
}

func (c *catalogService) IsTeam(name string) bool {
	_, ok := c.teams[name]
	return ok
}

func (c *catalogService) IsCity(name string) bool {
	_, ok := c.cities[name]
	return ok
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func toSet(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, v := range in {
		set[v] = struct{}{}
	}
	return set
}
