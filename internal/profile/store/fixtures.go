// Package store supplies the static tables profile lookups fall back to.
// Tables are built once at startup and never written afterwards.
package store

import (
	"dataloaders/internal/fallback"
	"dataloaders/internal/profile/models"
)

// Fixtures are the two static tables behind the profile page.
type Fixtures struct {
	Profiles  fallback.StaticTable[models.Profile]
	Followers fallback.StaticTable[string]
}

// Defaults returns the built-in demo fixtures.
func Defaults() Fixtures {
	return Fixtures{
		Profiles: fallback.NewStaticTable(map[string]models.Profile{
			"yyx990803": {Name: "Evan You", ImageURL: "/yyx990803.jpeg"},
			"posva":     {Name: "Eduardo San Martin Morote", ImageURL: "/posva.jpeg"},
		}),
		Followers: fallback.NewStaticTable(map[string]string{
			"posva":     "5.7k",
			"yyx990803": "100k",
		}),
	}
}
