package transport

import (
	"bytes"
	"encoding/json"

	"github.com/Skotchmaster/bookshelf/services/review/internal/models"
)

const DeletedMessage = "Review deleted successfully"

// FlexString accepts a JSON string or any other JSON scalar, keeping the
// literal text of the latter. null, false and a missing field decode to "";
// true decodes to "1".
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*f = ""
	case bytes.Equal(b, []byte("true")):
		*f = "1"
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		*f = FlexString(b)
	}
	return nil
}

type UpsertRequest struct {
	Rating    FlexString `json:"rating" form:"rating"`
	Comment   string     `json:"comment" form:"comment"`
	BookTitle string     `json:"bookTitle" form:"bookTitle"`
}

type DeleteResponse struct {
	Message string        `json:"message"`
	Review  models.Review `json:"review"`
}
