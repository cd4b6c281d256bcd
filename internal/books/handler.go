package books

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/httpx"
)

type Handler struct{ svc *Service }

// RegisterRoutes: 書籍の登録だけ認証+admin必須。閲覧・検索は公開
func RegisterRoutes(r gin.IRouter, svc *Service, authn, adminOnly gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.POST("/books", authn, adminOnly, h.CreateBook)
	r.GET("/books", h.ListBooks)
	// 外部カタログへの横断検索
	r.GET("/books/search", h.SearchBooks)
	r.GET("/books/:id", h.GetBook)
}

// POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid json or missing required fields")
		return
	}

	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.Header("Location", "/books/"+strconv.FormatInt(res.BookID, 10))
	c.JSON(http.StatusCreated, res)
}

// GET /books
func (h *Handler) ListBooks(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context(),
		c.Query("q"),
		parseIntDefault(c.Query("page"), 1),
		parseIntDefault(c.Query("limit"), 0),
	)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /books/search
func (h *Handler) SearchBooks(c *gin.Context) {
	res, err := h.svc.SearchExternal(c.Request.Context(),
		c.Query("q"),
		parseIntDefault(c.Query("page"), 1),
		parseIntDefault(c.Query("limit"), 0),
	)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.BadRequest(c, "book id must be a number")
		return
	}

	res, err := h.svc.Get(c.Request.Context(), id)
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
