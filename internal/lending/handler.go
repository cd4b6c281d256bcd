package lending

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/httpx"
	"library-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterRoutes: 貸出・返却・貸出一覧。すべて認証必須
func RegisterRoutes(r gin.IRouter, svc *Service, authn gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.POST("/books/:id/borrow", authn, h.BorrowBook)
	r.POST("/books/:id/return", authn, h.ReturnBook)
	r.GET("/users/me/borrows", authn, h.ListBorrowed)
}

// POST /books/:id/borrow
func (h *Handler) BorrowBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.BadRequest(c, "book id must be a number")
		return
	}

	res, err := h.svc.Borrow(c.Request.Context(), bookID, auth.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.Header("Location", "/users/me/borrows")
	c.JSON(http.StatusOK, res)
}

// POST /books/:id/return
func (h *Handler) ReturnBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.BadRequest(c, "book id must be a number")
		return
	}

	res, err := h.svc.Return(c.Request.Context(), bookID, auth.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /users/me/borrows
func (h *Handler) ListBorrowed(c *gin.Context) {
	res, err := h.svc.ListBorrowed(c.Request.Context(), auth.UserID(c),
		parseIntDefault(c.Query("page"), 1),
		parseIntDefault(c.Query("limit"), 0),
	)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
