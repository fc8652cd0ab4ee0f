package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/bookshelf/pkg/apperr"
	"github.com/Skotchmaster/bookshelf/pkg/authclient"
	"github.com/Skotchmaster/bookshelf/pkg/events"
	"github.com/Skotchmaster/bookshelf/pkg/logging"
	"github.com/Skotchmaster/bookshelf/pkg/tokens"
	"github.com/Skotchmaster/bookshelf/services/review/internal/models"
	"github.com/Skotchmaster/bookshelf/services/review/internal/repo"
)

var (
	ErrInvalidToken   = fmt.Errorf("invalid token: %w", apperr.ErrAuth)
	ErrUserNotFound   = fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	ErrMissingFields  = fmt.Errorf("book id and rating are required: %w", apperr.ErrValidation)
	ErrRatingRange    = fmt.Errorf("rating must be a number between 1 and 5: %w", apperr.ErrValidation)
	ErrReviewNotFound = fmt.Errorf("review not found: %w", apperr.ErrNotFound)
	ErrNotOwner       = fmt.Errorf("you can only delete your own reviews: %w", apperr.ErrForbidden)
)

type UserResolver interface {
	GetUser(ctx context.Context, id int64) (*authclient.User, error)
}

type TokenVerifier interface {
	Verify(token string) (int64, error)
}

var _ TokenVerifier = (*tokens.Service)(nil)

type ReviewService struct {
	Repo   *repo.ReviewRepo
	Tokens TokenVerifier
	Users  UserResolver
	Events events.Publisher
	Now    func() time.Time
}

type UpsertInput struct {
	// Rating is the raw rating as sent by the client, number or string.
	Rating    string
	Comment   string
	BookTitle string
}

func (s *ReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ReviewService) subject(token string) (int64, error) {
	sub, err := s.Tokens.Verify(token)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return sub, nil
}

// ParseRating accepts the textual form of a number in [1, 5].
func ParseRating(raw string) (float64, error) {
	rating, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0, ErrRatingRange
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return 0, ErrRatingRange
	}
	return rating, nil
}

// Upsert creates or replaces the caller's review of bookID. The returned flag
// reports whether a new review was created.
func (s *ReviewService) Upsert(ctx context.Context, bookID, token string, in UpsertInput) (*models.Review, bool, error) {
	l := logging.FromContext(ctx).With("svc", "review.upsert", "book_id", bookID)

	userID, err := s.subject(token)
	if err != nil {
		l.Warn("review_upsert_failed", "status", 401, "reason", "invalid token")
		return nil, false, err
	}
	l = l.With("user_id", userID)

	user, err := s.Users.GetUser(ctx, userID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		l.Warn("review_upsert_failed", "status", 404, "reason", "user not found")
		return nil, false, ErrUserNotFound
	case err != nil:
		l.Error("review_upsert_failed", "status", apperr.HTTPStatus(err), "reason", "cannot resolve user", "error", err)
		return nil, false, fmt.Errorf("resolve user: %w", err)
	}

	if bookID == "" || strings.TrimSpace(in.Rating) == "" {
		l.Warn("review_upsert_failed", "status", 400, "reason", "missing fields")
		return nil, false, ErrMissingFields
	}
	rating, err := ParseRating(in.Rating)
	if err != nil {
		l.Warn("review_upsert_failed", "status", 400, "reason", "bad rating", "rating", in.Rating)
		return nil, false, err
	}

	title := in.BookTitle
	if title == "" {
		title = models.DefaultBookTitle
	}

	now := s.now()
	stamp := now.Format(models.TimestampLayout)
	saved, created, err := s.Repo.Upsert(ctx, models.Review{
		BookID:    bookID,
		UserID:    userID,
		Username:  user.Username,
		Rating:    rating,
		Comment:   in.Comment,
		BookTitle: title,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}, now.UnixMilli())
	if err != nil {
		l.Error("review_upsert_failed", "status", 500, "error", err)
		return nil, false, fmt.Errorf("save review: %w", err)
	}

	s.publish(ctx, events.TypeReviewUpserted, saved)
	l.Info("review_upserted", "review_id", saved.ID, "created", created)
	return &saved, created, nil
}

// DeleteByID removes review reviewID of bookID if the caller owns it.
func (s *ReviewService) DeleteByID(ctx context.Context, bookID, reviewID, token string) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.delete_by_id", "book_id", bookID, "review_id", reviewID)

	userID, err := s.subject(token)
	if err != nil {
		l.Warn("review_delete_failed", "status", 401, "reason", "invalid token")
		return nil, err
	}

	removed, err := s.Repo.Delete(ctx,
		func(rv models.Review) bool {
			return rv.BookID == bookID && strconv.FormatInt(rv.ID, 10) == reviewID
		},
		func(rv models.Review) error {
			if rv.UserID != userID {
				return ErrNotOwner
			}
			return nil
		},
	)
	return s.finishDelete(ctx, l, removed, err)
}

// DeleteByOwner removes the caller's review of bookID.
func (s *ReviewService) DeleteByOwner(ctx context.Context, bookID, token string) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.delete_by_owner", "book_id", bookID)

	userID, err := s.subject(token)
	if err != nil {
		l.Warn("review_delete_failed", "status", 401, "reason", "invalid token")
		return nil, err
	}

	removed, err := s.Repo.Delete(ctx,
		func(rv models.Review) bool { return rv.BookID == bookID && rv.UserID == userID },
		nil,
	)
	return s.finishDelete(ctx, l.With("user_id", userID), removed, err)
}

func (s *ReviewService) finishDelete(ctx context.Context, l *slog.Logger, removed models.Review, err error) (*models.Review, error) {
	switch {
	case errors.Is(err, repo.ErrReviewNotFound):
		l.Warn("review_delete_failed", "status", 404, "reason", "review not found")
		return nil, ErrReviewNotFound
	case errors.Is(err, ErrNotOwner):
		l.Warn("review_delete_failed", "status", 403, "reason", "not the owner")
		return nil, ErrNotOwner
	case err != nil:
		l.Error("review_delete_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("delete review: %w", err)
	}

	s.publish(ctx, events.TypeReviewDeleted, removed)
	l.Info("review_deleted", "review_id", removed.ID)
	return &removed, nil
}

// ListForBook returns the reviews of bookID in stored order. A table that
// cannot be read is treated as empty.
func (s *ReviewService) ListForBook(ctx context.Context, bookID string) []models.Review {
	reviews, err := s.Repo.ListForBook(ctx, bookID)
	if err != nil {
		logging.FromContext(ctx).Error("reviews_read_failed", "book_id", bookID, "error", err)
		return []models.Review{}
	}
	return reviews
}

func (s *ReviewService) publish(ctx context.Context, eventType string, rv models.Review) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicReviews, rv.BookID, events.NewEvent(eventType, rv)); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", events.TopicReviews, "type", eventType, "error", err)
	}
}
