package models

import "dataloaders/internal/fallback"

// Profile is what the profile page shows for a user handle.
type Profile struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// ProfileInfo is a resolved profile with the side that produced it.
type ProfileInfo struct {
	ID      string
	Profile Profile
	Source  fallback.Source
}

// Followers is a resolved follower count, already formatted for display
// (e.g. "5.7k").
type Followers struct {
	ID     string
	Count  string
	Source fallback.Source
}

// Overview bundles both lookups the profile page loads together.
type Overview struct {
	ID        string
	Profile   ProfileInfo
	Followers Followers
}
