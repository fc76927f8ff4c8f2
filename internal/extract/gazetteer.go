package extract

import "strings"

// Coordinates is a (latitude, longitude) pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultCoordinates is the fixed fallback location (Chicago downtown) used
// when a query names no location and the context carries none.
var DefaultCoordinates = Coordinates{Latitude: 41.8781, Longitude: -87.6298}

// Locator supplies coordinates for named locations mentioned in a query.
// It is the extension point for plugging richer geocoding behind the
// coordinate extractor.
type Locator interface {
	Lookup(query string) (Coordinates, bool)
}

// Gazetteer is a fixed name-to-coordinates lookup. Names are matched as
// case-insensitive substrings of the query; longer names are checked first so
// "downtown chicago" wins over "chicago".
type Gazetteer struct {
	names  []string // sorted longest-first
	coords map[string]Coordinates
}

// NewGazetteer builds a Gazetteer from the given entries. Keys are lowercased.
func NewGazetteer(entries map[string]Coordinates) *Gazetteer {
	g := &Gazetteer{coords: make(map[string]Coordinates, len(entries))}
	for name, c := range entries {
		name = strings.ToLower(name)
		g.coords[name] = c
		g.names = append(g.names, name)
	}
	// Insertion sort by descending length keeps the longest-match-first rule.
	for i := 1; i < len(g.names); i++ {
		for j := i; j > 0 && len(g.names[j]) > len(g.names[j-1]); j-- {
			g.names[j], g.names[j-1] = g.names[j-1], g.names[j]
		}
	}
	return g
}

// Lookup implements Locator.
func (g *Gazetteer) Lookup(query string) (Coordinates, bool) {
	lower := strings.ToLower(query)
	for _, name := range g.names {
		if strings.Contains(lower, name) {
			return g.coords[name], true
		}
	}
	return Coordinates{}, false
}

// ChicagoGazetteer returns the built-in gazetteer of Chicago places the
// service knows about out of the box.
func ChicagoGazetteer() *Gazetteer {
	return NewGazetteer(map[string]Coordinates{
		"downtown chicago": {Latitude: 41.8781, Longitude: -87.6298},
		"the loop":         {Latitude: 41.8786, Longitude: -87.6298},
		"lincoln park":     {Latitude: 41.9214, Longitude: -87.6513},
		"hyde park":        {Latitude: 41.7943, Longitude: -87.5907},
		"wicker park":      {Latitude: 41.9088, Longitude: -87.6796},
		"logan square":     {Latitude: 41.9230, Longitude: -87.7094},
		"river north":      {Latitude: 41.8924, Longitude: -87.6341},
		"south loop":       {Latitude: 41.8632, Longitude: -87.6266},
		"west loop":        {Latitude: 41.8827, Longitude: -87.6486},
		"o'hare":           {Latitude: 41.9742, Longitude: -87.9073},
		"chicago":          {Latitude: 41.8781, Longitude: -87.6298},
	})
}
