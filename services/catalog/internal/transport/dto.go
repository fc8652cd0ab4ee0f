package transport

type SearchRequest struct {
	Q      string `query:"q"`
	Author string `query:"author"`
	Title  string `query:"title"`
	Limit  int    `query:"limit"`
}
