package models

// DefaultTheme is used when no theme has been chosen.
const DefaultTheme = "default"

// Theme is a selectable colour scheme: a three-stop gradient.
type Theme struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Gradient [3]string `json:"gradient"`
}

// Themes lists the available themes in settings order.
var Themes = []Theme{
	{ID: "default", Name: "Purple", Gradient: [3]string{"#A855F7", "#EC4899", "#F97316"}},
	{ID: "ocean", Name: "Ocean", Gradient: [3]string{"#3B82F6", "#06B6D4", "#14B8A6"}},
	{ID: "sunset", Name: "Sunset", Gradient: [3]string{"#EF4444", "#F97316", "#EC4899"}},
	{ID: "forest", Name: "Forest", Gradient: [3]string{"#22C55E", "#10B981", "#84CC16"}},
	{ID: "midnight", Name: "Midnight", Gradient: [3]string{"#2563EB", "#4F46E5", "#9333EA"}},
	{ID: "candy", Name: "Candy", Gradient: [3]string{"#EC4899", "#A855F7", "#D946EF"}},
	{ID: "neon", Name: "Neon", Gradient: [3]string{"#4ADE80", "#A855F7", "#FACC15"}},
	{ID: "lavender", Name: "Lavender", Gradient: [3]string{"#C084FC", "#A78BFA", "#E879F9"}},
	{ID: "fire", Name: "Fire", Gradient: [3]string{"#EA580C", "#EF4444", "#EAB308"}},
	{ID: "emerald", Name: "Emerald", Gradient: [3]string{"#10B981", "#14B8A6", "#22C55E"}},
	{ID: "royal", Name: "Royal", Gradient: [3]string{"#4F46E5", "#9333EA", "#EAB308"}},
}

// LookupTheme returns the theme with the given id.
func LookupTheme(id string) (Theme, bool) {
	for _, t := range Themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// ThemeOrDefault returns the theme with the given id, or the default theme when the id is unknown.
func ThemeOrDefault(id string) Theme {
	if t, ok := LookupTheme(id); ok {
		return t
	}
	return Themes[0]
}
