package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/bookshelf/pkg/store"
	"github.com/Skotchmaster/bookshelf/services/review/internal/models"
)

const ReviewsTable = "reviews"

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepo struct {
	Reviews *store.Table[models.Review]
}

func NewReviewRepo(backend store.Backend) *ReviewRepo {
	return &ReviewRepo{Reviews: store.NewTable[models.Review](backend, ReviewsTable)}
}

func (r *ReviewRepo) ListForBook(ctx context.Context, bookID string) ([]models.Review, error) {
	all, err := r.Reviews.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Review, 0)
	for _, rv := range all {
		if rv.BookID == bookID {
			out = append(out, rv)
		}
	}
	return out, nil
}

// Upsert replaces the review for (rv.BookID, rv.UserID) keeping its id and
// createdAt, or appends rv. A new review gets candidateID unless an existing
// id is already at or above it, in which case it gets the next free id.
func (r *ReviewRepo) Upsert(ctx context.Context, rv models.Review, candidateID int64) (models.Review, bool, error) {
	created := false
	err := r.Reviews.Update(ctx, func(reviews []models.Review) ([]models.Review, error) {
		var maxID int64
		for i, existing := range reviews {
			if existing.BookID == rv.BookID && existing.UserID == rv.UserID {
				rv.ID = existing.ID
				rv.CreatedAt = existing.CreatedAt
				reviews[i] = rv
				return reviews, nil
			}
			maxID = max(maxID, existing.ID)
		}

		rv.ID = candidateID
		if rv.ID <= maxID {
			rv.ID = maxID + 1
		}
		created = true
		return append(reviews, rv), nil
	})
	if err != nil {
		return models.Review{}, false, err
	}
	return rv, created, nil
}

// Delete removes the first review matching match. authorize may veto the
// removal, in which case the table is left as it was.
func (r *ReviewRepo) Delete(ctx context.Context, match func(models.Review) bool, authorize func(models.Review) error) (models.Review, error) {
	var removed models.Review
	err := r.Reviews.Update(ctx, func(reviews []models.Review) ([]models.Review, error) {
		for i, rv := range reviews {
			if !match(rv) {
				continue
			}
			if authorize != nil {
				if err := authorize(rv); err != nil {
					return nil, err
				}
			}
			removed = rv
			return append(reviews[:i], reviews[i+1:]...), nil
		}
		return nil, ErrReviewNotFound
	})
	if err != nil {
		return models.Review{}, err
	}
	return removed, nil
}
