package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"library-backend/internal/apperr"
)

func passThrough(c *gin.Context) { c.Next() }

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	RegisterRoutes(api, svc, passThrough, passThrough)
	return r
}

func TestCreateBookEndpoint(t *testing.T) {
	r := newTestRouter(newTestService(&fakeBookStore{}, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books",
		strings.NewReader(`{"title":"Dune","author":"Herbert","available_copies":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/books/1", w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), `"title":"Dune"`)
}

func TestCreateBookEndpoint_MissingFields(t *testing.T) {
	r := newTestRouter(newTestService(&fakeBookStore{}, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ARGUMENT")
}

// 上流が落ちている時は 503 と UPSTREAM_UNAVAILABLE を呼び出し側まで通す
func TestSearchEndpoint_Upstream503(t *testing.T) {
	gw := &fakeGateway{err: apperr.ErrUpstreamUnavailable("open library api is unavailable")}
	r := newTestRouter(newTestService(&fakeBookStore{}, gw))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books/search?q=dune", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "UPSTREAM_UNAVAILABLE")
}

func TestSearchEndpoint_BadQuery(t *testing.T) {
	gw := &fakeGateway{err: apperr.ErrBadQuery("failed to search books")}
	r := newTestRouter(newTestService(&fakeBookStore{}, gw))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books/search?q=%3C", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_QUERY")
}

func TestListBooksEndpoint_DefaultPaging(t *testing.T) {
	store := &fakeBookStore{}
	svc := newTestService(store, nil)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), CreateBookRequest{Title: "b", Author: "a", AvailableCopies: 1})
		assert.NoError(t, err)
	}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalDocs":3`)
	assert.Contains(t, w.Body.String(), `"limit":10`)
}
