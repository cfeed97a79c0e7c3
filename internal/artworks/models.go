package artworks

// Response is the AIC envelope around a single resource.
type Response[T any] struct {
	Data   T           `json:"data"`
	Info   LicenseInfo `json:"info"`
	Config Config      `json:"config"`
}

// Paginated is the AIC envelope around a page of resources.
type Paginated[T any] struct {
	Pagination Pagination  `json:"pagination"`
	Data       T           `json:"data"`
	Info       LicenseInfo `json:"info"`
	Config     Config      `json:"config"`
}

type Pagination struct {
	Total       int    `json:"total"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	NextURL     string `json:"next_url,omitempty"`
}

type LicenseInfo struct {
	LicenseText  string   `json:"license_text"`
	LicenseLinks []string `json:"license_links"`
	Version      string   `json:"version"`
}

type Config struct {
	IIIFURL    string `json:"iiif_url"`
	WebsiteURL string `json:"website_url"`
}

type Thumbnail struct {
	LQIP    string `json:"lqip"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	AltText string `json:"alt_text"`
}

type DimensionDetail struct {
	Depth         *float64 `json:"depth"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	Diameter      *float64 `json:"diameter"`
	Clarification *string  `json:"clarification"`
}

type Color struct {
	H          float64 `json:"h"`
	L          float64 `json:"l"`
	S          float64 `json:"s"`
	Percentage float64 `json:"percentage"`
	Population int     `json:"population"`
}

// Artwork is the part of the AIC artwork resource the demo pages render.
// ImageURL is not sent by the API; List fills it from the IIIF base URL.
type Artwork struct {
	ID                   int               `json:"id"`
	APIModel             string            `json:"api_model"`
	APILink              string            `json:"api_link"`
	IsBoosted            bool              `json:"is_boosted"`
	Title                string            `json:"title"`
	Thumbnail            *Thumbnail        `json:"thumbnail,omitempty"`
	MainReferenceNumber  string            `json:"main_reference_number"`
	DateStart            int               `json:"date_start"`
	DateEnd              int               `json:"date_end"`
	DateDisplay          string            `json:"date_display"`
	ArtistDisplay        string            `json:"artist_display"`
	PlaceOfOrigin        string            `json:"place_of_origin"`
	Description          string            `json:"description"`
	ShortDescription     *string           `json:"short_description"`
	Dimensions           string            `json:"dimensions"`
	DimensionsDetail     []DimensionDetail `json:"dimensions_detail"`
	MediumDisplay        string            `json:"medium_display"`
	CreditLine           string            `json:"credit_line"`
	IsPublicDomain       bool              `json:"is_public_domain"`
	IsOnView             bool              `json:"is_on_view"`
	CopyrightNotice      *string           `json:"copyright_notice"`
	Colorfulness         float64           `json:"colorfulness"`
	Color                *Color            `json:"color"`
	Latitude             *float64          `json:"latitude"`
	Longitude            *float64          `json:"longitude"`
	ArtworkTypeTitle     string            `json:"artwork_type_title"`
	DepartmentTitle      string            `json:"department_title"`
	ArtistID             int               `json:"artist_id"`
	ArtistTitle          string            `json:"artist_title"`
	ArtistTitles         []string          `json:"artist_titles"`
	CategoryTitles       []string          `json:"category_titles"`
	StyleTitle           *string           `json:"style_title"`
	StyleTitles          []string          `json:"style_titles"`
	ClassificationTitle  string            `json:"classification_title"`
	ClassificationTitles []string          `json:"classification_titles"`
	SubjectTitles        []string          `json:"subject_titles"`
	MaterialTitles       []string          `json:"material_titles"`
	TechniqueTitles      []string          `json:"technique_titles"`
	TermTitles           []string          `json:"term_titles"`
	ImageID              *string           `json:"image_id"`
	ImageURL             *string           `json:"image_url"`
	SourceUpdatedAt      string            `json:"source_updated_at"`
	UpdatedAt            string            `json:"updated_at"`
	Timestamp            string            `json:"timestamp"`
}

type SearchThumbnail struct {
	AltText string `json:"alt_text"`
	Width   int    `json:"width"`
	LQIP    string `json:"lqip"`
	Height  int    `json:"height"`
}

type SearchResult struct {
	Score     float64          `json:"_score"`
	Thumbnail *SearchThumbnail `json:"thumbnail"`
	APIModel  string           `json:"api_model"`
	IsBoosted bool             `json:"is_boosted"`
	APILink   string           `json:"api_link"`
	ID        int              `json:"id"`
	Title     string           `json:"title"`
	Timestamp string           `json:"timestamp"`
}

// ImageURL builds the IIIF URL for an image at the width the list page uses.
func ImageURL(iiifURL, imageID string) string {
	return iiifURL + "/" + imageID + "/full/843,/0/default.jpg"
}
