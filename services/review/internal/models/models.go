package models

// Review is one user's rating of one book. At most one review exists per
// (BookID, UserID).
type Review struct {
	ID        int64   `json:"id"`
	BookID    string  `json:"bookId"`
	UserID    int64   `json:"userId"`
	Username  string  `json:"username"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
	BookTitle string  `json:"bookTitle"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

const (
	DefaultBookTitle = "Unknown Book Title"
	MinRating        = 1
	MaxRating        = 5
)

const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
