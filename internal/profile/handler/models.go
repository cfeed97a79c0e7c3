package handler

import "dataloaders/internal/profile/models"

// ProfileResponse is the body of GET /profiles/{id}.
type ProfileResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Source   string `json:"source"`
}

// FollowersResponse is the body of GET /profiles/{id}/followers.
type FollowersResponse struct {
	ID        string `json:"id"`
	Followers string `json:"followers"`
	Source    string `json:"source"`
}

// OverviewResponse is the body of GET /profiles/{id}/overview.
type OverviewResponse struct {
	ID        string            `json:"id"`
	Profile   ProfileResponse   `json:"profile"`
	Followers FollowersResponse `json:"followers"`
}

func toProfileResponse(info *models.ProfileInfo) ProfileResponse {
	return ProfileResponse{
		ID:       info.ID,
		Name:     info.Profile.Name,
		ImageURL: info.Profile.ImageURL,
		Source:   string(info.Source),
	}
}

func toFollowersResponse(f *models.Followers) FollowersResponse {
	return FollowersResponse{
		ID:        f.ID,
		Followers: f.Count,
		Source:    string(f.Source),
	}
}

func toOverviewResponse(o *models.Overview) OverviewResponse {
	return OverviewResponse{
		ID:        o.ID,
		Profile:   toProfileResponse(&o.Profile),
		Followers: toFollowersResponse(&o.Followers),
	}
}
