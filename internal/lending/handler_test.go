package lending

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"library-backend/internal/platform/auth"
)

// stubAuthn: テスト用に固定ユーザーを認証済みにする
func stubAuthn(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.CtxUserIDKey, userID)
		c.Next()
	}
}

func newTestRouter(svc *Service, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	RegisterRoutes(api, svc, stubAuthn(userID))
	return r
}

func TestBorrowEndpoint_Scenario(t *testing.T) {
	ledger := newFakeLedger()
	ledger.copies[1] = 1
	svc := newTestService(ledger, time.Now().UTC())

	// userA が借りる → 成功、在庫は 0 に
	r := newTestRouter(svc, 100)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books/1/borrow", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var ack BorrowAck
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, "Book borrowed successfully", ack.Message)
	assert.Equal(t, 0, ledger.copies[1])

	// userB が同じ本を借りる → 在庫切れで 409
	r = newTestRouter(svc, 200)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/books/1/borrow", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
	assert.Len(t, ledger.borrows, 1)
}

func TestBorrowEndpoint_AlreadyBorrowed(t *testing.T) {
	ledger := newFakeLedger()
	ledger.copies[1] = 5
	svc := newTestService(ledger, time.Now().UTC())
	r := newTestRouter(svc, 100)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/books/1/borrow", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/books/1/borrow", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_BORROWED")
}

func TestBorrowEndpoint_NotFound(t *testing.T) {
	svc := newTestService(newFakeLedger(), time.Now().UTC())
	r := newTestRouter(svc, 100)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/books/42/borrow", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBorrowEndpoint_BadBookID(t *testing.T) {
	svc := newTestService(newFakeLedger(), time.Now().UTC())
	r := newTestRouter(svc, 100)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/books/abc/borrow", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBorrowedEndpoint(t *testing.T) {
	ledger := newFakeLedger()
	ledger.copies[1] = 1
	ledger.copies[2] = 1
	svc := newTestService(ledger, time.Now().UTC())
	r := newTestRouter(svc, 100)

	for _, p := range []string{"/api/v1/books/1/borrow", "/api/v1/books/2/borrow"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, p, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me/borrows?page=1&limit=10", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Data      []BorrowedBookResponse `json:"data"`
		TotalDocs int64                  `json:"totalDocs"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.TotalDocs)
	assert.Len(t, page.Data, 2)
}

func TestReturnEndpoint(t *testing.T) {
	ledger := newFakeLedger()
	ledger.copies[1] = 1
	svc := newTestService(ledger, time.Now().UTC())
	r := newTestRouter(svc, 100)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/books/1/borrow", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/books/1/return", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ledger.copies[1])

	// 二重返却は 404（未返却の貸出が無い）
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/books/1/return", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
