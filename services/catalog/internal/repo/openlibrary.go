package repo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Skotchmaster/bookshelf/pkg/apperr"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/models"
)

const DefaultBaseURL = "https://openlibrary.org"

// maxBody bounds how much of an upstream response is read.
const maxBody = 8 << 20

// OpenLibraryRepo reads book data from the Open Library API and reshapes it.
type OpenLibraryRepo struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenLibraryRepo(baseURL string) *OpenLibraryRepo {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenLibraryRepo{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (r *OpenLibraryRepo) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := r.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w: %w", err, apperr.ErrUpstream)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w: %w", err, apperr.ErrUpstream)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("not found upstream: %w", apperr.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("catalog responded with status %d: %w", resp.StatusCode, apperr.ErrUpstream)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("catalog returned malformed JSON: %w", apperr.ErrUpstream)
	}
	return body, nil
}

func (r *OpenLibraryRepo) search(ctx context.Context, field, value string, limit int) (gjson.Result, error) {
	q := url.Values{}
	q.Set(field, value)
	q.Set("limit", strconv.Itoa(limit))

	body, err := r.get(ctx, "/search.json", q)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.GetBytes(body, "docs"), nil
}

func (r *OpenLibraryRepo) Search(ctx context.Context, query string, limit int) ([]models.SearchBook, error) {
	docs, err := r.search(ctx, "q", query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.SearchBook, 0)
	docs.ForEach(func(_, doc gjson.Result) bool {
		out = append(out, models.SearchBook{
			Title:            doc.Get("title").String(),
			Author:           joined(doc.Get("author_name"), models.Unknown),
			FirstPublishYear: text(doc.Get("first_publish_year"), models.Unknown),
			ISBN:             text(doc.Get("isbn.0"), models.Unknown),
		})
		return true
	})
	return out, nil
}

func (r *OpenLibraryRepo) ByAuthor(ctx context.Context, author string, limit int) ([]models.AuthorBook, error) {
	docs, err := r.search(ctx, "author", author, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.AuthorBook, 0)
	docs.ForEach(func(_, doc gjson.Result) bool {
		out = append(out, models.AuthorBook{
			Title:            doc.Get("title").String(),
			FirstPublishYear: text(doc.Get("first_publish_year"), models.Unknown),
			ISBN:             text(doc.Get("isbn.0"), models.Unknown),
			Language:         text(doc.Get("language.0"), models.Unknown),
			Subject:          strs(doc.Get("subject"), "", models.MaxAuthorSubjects),
		})
		return true
	})
	return out, nil
}

func (r *OpenLibraryRepo) ByTitle(ctx context.Context, title string, limit int) ([]models.TitleBook, error) {
	docs, err := r.search(ctx, "title", title, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.TitleBook, 0)
	docs.ForEach(func(_, doc gjson.Result) bool {
		out = append(out, models.TitleBook{
			Title:            doc.Get("title").String(),
			Author:           joined(doc.Get("author_name"), models.Unknown),
			FirstPublishYear: text(doc.Get("first_publish_year"), models.Unknown),
			ISBN:             text(doc.Get("isbn.0"), models.Unknown),
			Publisher:        text(doc.Get("publisher.0"), models.Unknown),
		})
		return true
	})
	return out, nil
}

// ByISBN returns nil details and no error when the catalog has no such book.
func (r *OpenLibraryRepo) ByISBN(ctx context.Context, isbn string) (*models.BookDetails, error) {
	q := url.Values{}
	q.Set("bibkeys", "ISBN:"+isbn)
	q.Set("format", "json")
	q.Set("jscmd", "data")

	body, err := r.get(ctx, "/api/books", q)
	if err != nil {
		return nil, err
	}

	data, ok := gjson.ParseBytes(body).Map()["ISBN:"+isbn]
	if !ok || !data.IsObject() {
		return nil, nil
	}

	return &models.BookDetails{
		Title:         data.Get("title").String(),
		Authors:       joined(data.Get("authors.#.name"), models.Unknown),
		Publisher:     text(data.Get("publishers.0.name"), models.Unknown),
		PublishDate:   text(data.Get("publish_date"), models.Unknown),
		Cover:         text(data.Get("cover.medium"), models.NoCover),
		NumberOfPages: text(data.Get("number_of_pages"), models.Unknown),
		Subjects:      strs(data.Get("subjects"), "name", models.MaxISBNSubjects),
	}, nil
}

func (r *OpenLibraryRepo) Work(ctx context.Context, workID string) (*models.Work, error) {
	body, err := r.get(ctx, "/works/"+url.PathEscape(workID)+".json", nil)
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(body)
	desc := doc.Get("description")
	if desc.IsObject() {
		desc = desc.Get("value")
	}

	return &models.Work{
		Title:       doc.Get("title").String(),
		Subjects:    strs(doc.Get("subjects"), "", 0),
		Description: text(desc, models.NoDescription),
	}, nil
}

// text renders a scalar as a string, or def when it is missing or falsy.
func text(r gjson.Result, def string) string {
	switch r.Type {
	case gjson.Number:
		if r.Num == 0 {
			return def
		}
		return r.Raw
	case gjson.String:
		if r.Str == "" {
			return def
		}
		return r.Str
	case gjson.True:
		return "true"
	case gjson.JSON:
		return r.Raw
	default:
		return def
	}
}

// joined joins a string array with ", ", or returns def when r is not an array.
func joined(r gjson.Result, def string) string {
	if !r.IsArray() {
		return def
	}
	parts := make([]string, 0)
	for _, v := range r.Array() {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

// strs collects up to limit elements of an array (all when limit is 0),
// reading field from each element when field is set.
func strs(r gjson.Result, field string, limit int) []string {
	out := make([]string, 0)
	if !r.IsArray() {
		return out
	}
	for _, v := range r.Array() {
		if limit > 0 && len(out) == limit {
			break
		}
		if field != "" {
			v = v.Get(field)
		}
		out = append(out, v.String())
	}
	return out
}
