package models

// Image source kinds returned by catalog resolution.
const (
	ImageSourceCover   = "cover"
	ImageSourceArtwork = "artwork"
	ImageSourceNone    = "none"
)

// CatalogImage is a resolved cover or banner image for a title.
// Source is ImageSourceNone when the catalog has no usable image; that is a
// terminal state, not an error.
type CatalogImage struct {
	URL    string `json:"coverUrl"`
	Source string `json:"source"`
}

// None reports whether the resolution confirmed there is no image.
func (i CatalogImage) None() bool {
	return i.Source == ImageSourceNone
}

// GameDetails is descriptive catalog metadata for a title. Lists default to
// empty, never nil, so absence serializes as [] rather than null.
type GameDetails struct {
	ArtworkURL string   `json:"artworkUrl"`
	Genres     []string `json:"genres"`
	Developers []string `json:"developers"`
	Publishers []string `json:"publishers"`
}

// GenreHistogram maps genre name to the number of distinct reviewed titles
// carrying that genre.
type GenreHistogram map[string]int
