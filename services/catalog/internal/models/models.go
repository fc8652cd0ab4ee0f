package models

const (
	Unknown           = "Unknown"
	NoCover           = "No cover available"
	NoDescription     = "No description available"
	MaxAuthorSubjects = 3
	MaxISBNSubjects   = 5
)

// SearchBook is one hit of a free-text search.
type SearchBook struct {
	Title            string `json:"title,omitempty"`
	Author           string `json:"author"`
	FirstPublishYear string `json:"first_publish_year"`
	ISBN             string `json:"isbn"`
}

// AuthorBook is one hit of a search by author.
type AuthorBook struct {
	Title            string   `json:"title,omitempty"`
	FirstPublishYear string   `json:"first_publish_year"`
	ISBN             string   `json:"isbn"`
	Language         string   `json:"language"`
	Subject          []string `json:"subject"`
}

// TitleBook is one hit of a search by title.
type TitleBook struct {
	Title            string `json:"title,omitempty"`
	Author           string `json:"author"`
	FirstPublishYear string `json:"first_publish_year"`
	ISBN             string `json:"isbn"`
	Publisher        string `json:"publisher"`
}

type BookDetails struct {
	Title         string   `json:"title,omitempty"`
	Authors       string   `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishDate   string   `json:"publish_date"`
	Cover         string   `json:"cover"`
	NumberOfPages string   `json:"number_of_pages"`
	Subjects      []string `json:"subjects"`
}

type Work struct {
	Title       string   `json:"title,omitempty"`
	Subjects    []string `json:"subjects"`
	Description string   `json:"description"`
}
