package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshelf/pkg/apperr"
	"github.com/Skotchmaster/bookshelf/pkg/authclient"
	jwthelp "github.com/Skotchmaster/bookshelf/pkg/jwt"
	"github.com/Skotchmaster/bookshelf/pkg/store"
	"github.com/Skotchmaster/bookshelf/pkg/tokens"
	"github.com/Skotchmaster/bookshelf/services/review/internal/models"
	"github.com/Skotchmaster/bookshelf/services/review/internal/repo"
	"github.com/Skotchmaster/bookshelf/services/review/internal/service"
)

type fakeUsers struct{}

func (fakeUsers) GetUser(_ context.Context, id int64) (*authclient.User, error) {
	if id > 2 {
		return nil, apperr.ErrNotFound
	}
	return &authclient.User{ID: id, Username: fmt.Sprintf("user%d", id)}, nil
}

type testServer struct {
	e      *echo.Echo
	tokens *tokens.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	backend, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	ts := tokens.NewService([]byte("test-secret"), false)
	e := echo.New()
	Register(e, &Deps{ReviewHandler: &ReviewHTTP{Svc: &service.ReviewService{
		Repo:   repo.NewReviewRepo(backend),
		Tokens: ts,
		Users:  fakeUsers{},
	}}})
	return &testServer{e: e, tokens: ts}
}

func (s *testServer) token(t *testing.T, id int64) string {
	t.Helper()
	tok, err := s.tokens.Issue(id)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestReviewHTTP_Flow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	alice := s.token(t, 1)

	rec := s.do(http.MethodPut, "/books/B1/reviews", alice, `{"rating":4.5,"comment":"nice","bookTitle":"Dune"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Review](t, rec)
	assert.Equal(t, "B1", created.BookID)
	assert.Equal(t, "user1", created.Username)
	assert.Equal(t, 4.5, created.Rating)

	rec = s.do(http.MethodPost, "/books/B1/reviews", alice, `{"rating":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Review](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, models.DefaultBookTitle, updated.BookTitle)

	rec = s.do(http.MethodGet, "/books/B1/reviews", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Review](t, rec), 1)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/books/B1/reviews/%d", created.ID), alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[struct {
		Message string        `json:"message"`
		Review  models.Review `json:"review"`
	}](t, rec)
	assert.Equal(t, "Review deleted successfully", deleted.Message)
	assert.Equal(t, created.ID, deleted.Review.ID)

	rec = s.do(http.MethodGet, "/books/B1/reviews", "", "")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestReviewHTTP_CookieToken(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPut, "/books/B1/reviews", strings.NewReader(`{"rating":5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: jwthelp.AccessCookieName, Value: s.token(t, 2)})
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(2), decode[models.Review](t, rec).UserID)
}

func TestReviewHTTP_DeleteOwn(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	alice, bob := s.token(t, 1), s.token(t, 2)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPut, "/books/B1/reviews", alice, `{"rating":4}`).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPut, "/books/B1/reviews", bob, `{"rating":2}`).Code)

	rec := s.do(http.MethodDelete, "/books/B1/reviews", bob, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/books/B1/reviews", bob, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/books/B1/reviews", "", "")
	left := decode[[]models.Review](t, rec)
	require.Len(t, left, 1)
	assert.Equal(t, int64(1), left[0].UserID)
}

func TestReviewHTTP_BooleanRating(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/books/B3/reviews", s.token(t, 2), `{"rating":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1.0, decode[models.Review](t, rec).Rating)
}

func TestReviewHTTP_Errors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	alice, bob := s.token(t, 1), s.token(t, 2)

	rec := s.do(http.MethodPut, "/books/B1/reviews", alice, `{"rating":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.Review](t, rec).ID

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "no token", method: http.MethodPut, path: "/books/B1/reviews", body: `{"rating":4}`, wantCode: http.StatusUnauthorized, wantMsg: "invalid token"},
		{name: "garbage token", method: http.MethodPut, path: "/books/B1/reviews", token: "a.b", body: `{"rating":4}`, wantCode: http.StatusUnauthorized, wantMsg: "invalid token"},
		{name: "unknown user", method: http.MethodPut, path: "/books/B1/reviews", token: s.token(t, 9), body: `{"rating":4}`, wantCode: http.StatusNotFound, wantMsg: "user not found"},
		{name: "rating zero", method: http.MethodPut, path: "/books/B1/reviews", token: bob, body: `{"rating":0}`, wantCode: http.StatusBadRequest, wantMsg: "rating must be a number between 1 and 5"},
		{name: "rating six", method: http.MethodPut, path: "/books/B1/reviews", token: bob, body: `{"rating":"6"}`, wantCode: http.StatusBadRequest, wantMsg: "rating must be a number between 1 and 5"},
		{name: "rating missing", method: http.MethodPut, path: "/books/B1/reviews", token: bob, body: `{"comment":"x"}`, wantCode: http.StatusBadRequest, wantMsg: "book id and rating are required"},
		{name: "rating false", method: http.MethodPut, path: "/books/B1/reviews", token: bob, body: `{"rating":false}`, wantCode: http.StatusBadRequest, wantMsg: "book id and rating are required"},
		{name: "not owner", method: http.MethodDelete, path: fmt.Sprintf("/books/B1/reviews/%d", id), token: bob, wantCode: http.StatusForbidden, wantMsg: "you can only delete your own reviews"},
		{name: "wrong book", method: http.MethodDelete, path: fmt.Sprintf("/books/B2/reviews/%d", id), token: alice, wantCode: http.StatusNotFound, wantMsg: "review not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decode[map[string]string](t, rec)["message"])
		})
	}

	rec = s.do(http.MethodGet, "/books/B1/reviews", "", "")
	assert.Len(t, decode[[]models.Review](t, rec), 1)
}
