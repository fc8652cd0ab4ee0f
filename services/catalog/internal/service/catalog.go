package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/bookshelf/pkg/apperr"
	"github.com/Skotchmaster/bookshelf/pkg/logging"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/models"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/repo"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/util"
)

var (
	ErrEmptyQuery = fmt.Errorf("a search term is required (q, author or title): %w", apperr.ErrValidation)
	ErrBadISBN    = fmt.Errorf("isbn must be 10 or 13 digits: %w", apperr.ErrValidation)
	ErrBadWorkID  = fmt.Errorf("work id must look like OL27258W: %w", apperr.ErrValidation)
)

type CatalogService struct {
	Repo *repo.OpenLibraryRepo
	// Limit is the default number of search results.
	Limit int
}

type SearchQuery struct {
	Q      string
	Author string
	Title  string
	Limit  int
}

// Search runs a free-text, author or title search, picking the first of
// Q, Author and Title that is set.
func (s *CatalogService) Search(ctx context.Context, q SearchQuery) (any, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")
	limit := util.ClampLimit(q.Limit, s.Limit)

	var (
		res any
		err error
	)
	switch {
	case q.Q != "":
		res, err = s.Repo.Search(ctx, q.Q, limit)
	case q.Author != "":
		res, err = s.Repo.ByAuthor(ctx, q.Author, limit)
	case q.Title != "":
		res, err = s.Repo.ByTitle(ctx, q.Title, limit)
	default:
		return nil, ErrEmptyQuery
	}
	if err != nil {
		l.Error("catalog_search_failed", "status", apperr.HTTPStatus(err), "error", err)
		return nil, err
	}
	return res, nil
}

func (s *CatalogService) ByISBN(ctx context.Context, raw string) (*models.BookDetails, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.isbn", "isbn", raw)

	isbn, ok := util.NormalizeISBN(raw)
	if !ok {
		return nil, ErrBadISBN
	}

	book, err := s.Repo.ByISBN(ctx, isbn)
	if err != nil {
		l.Error("catalog_isbn_failed", "status", apperr.HTTPStatus(err), "error", err)
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("no book found with ISBN: %s: %w", isbn, apperr.ErrNotFound)
	}
	return book, nil
}

func (s *CatalogService) Work(ctx context.Context, id string) (*models.Work, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.work", "work_id", id)

	if !util.ValidWorkID(id) {
		return nil, ErrBadWorkID
	}

	work, err := s.Repo.Work(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("no work found with id: %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		l.Warn("catalog_work_failed", "status", apperr.HTTPStatus(err), "error", err)
		return nil, err
	}
	return work, nil
}
