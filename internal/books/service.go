package books

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"

	"library-backend/internal/apperr"
	"library-backend/internal/gateway"
	"library-backend/internal/pagination"
)

// BookStore は在庫ストアの能力。SQL実装の他、テストではインメモリ実装を差す
type BookStore interface {
	Insert(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id int64) (*Book, error)
	List(ctx context.Context, f Filter, skip, limit int) ([]Book, int64, error)
}

type Service struct {
	store BookStore
	gw    gateway.Gateway
}

func NewService(conn *sql.DB, gw gateway.Gateway) *Service {
	return &Service{store: NewStore(conn), gw: gw}
}

// 書籍登録
func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	title := strings.TrimSpace(req.Title)
	author := strings.TrimSpace(req.Author)
	if title == "" {
		return nil, apperr.ErrInvalid("title is required")
	}
	if author == "" {
		return nil, apperr.ErrInvalid("author is required")
	}
	if req.AvailableCopies < 0 {
		return nil, apperr.ErrInvalid("available_copies must be >= 0")
	}

	b := &Book{
		Title:           title,
		Author:          author,
		AvailableCopies: req.AvailableCopies,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, storage(err, "error creating a book")
	}

	resp := buildBookResponse(b)
	return &resp, nil
}

// 書籍単一取得
func (s *Service) Get(ctx context.Context, id int64) (*BookResponse, error) {
	if id <= 0 {
		return nil, apperr.ErrInvalid("book id must be > 0")
	}
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, storage(err, "error fetching a book")
	}
	resp := buildBookResponse(b)
	return &resp, nil
}

// 書籍一覧（登録の新しい順、タイトル部分一致フィルタ）
func (s *Service) List(ctx context.Context, q string, page, limit int) (pagination.Page[BookResponse], error) {
	skip, lim := pagination.Window(page, pagination.ClampLimit(limit))

	// 合成文字の揺れでLIKEを取りこぼさないようNFCに正規化してから渡す
	f := Filter{Q: norm.NFC.String(strings.TrimSpace(q))}

	rows, total, err := s.store.List(ctx, f, skip, lim)
	if err != nil {
		return pagination.Page[BookResponse]{}, storage(err, "error fetching books")
	}

	resps := make([]BookResponse, 0, len(rows))
	for i := range rows {
		resps = append(resps, buildBookResponse(&rows[i]))
	}
	return pagination.Build(resps, total, skip, lim), nil
}

// 外部カタログ検索。行の取得だけゲートウェイに委譲し、ページの形は一覧と揃える
func (s *Service) SearchExternal(ctx context.Context, q string, page, limit int) (pagination.Page[gateway.Doc], error) {
	if page <= 0 {
		page = 1
	}
	skip, lim := pagination.Window(page, pagination.ClampLimit(limit))

	res, err := s.gw.Search(ctx, gateway.Query{Q: q, Page: page, Limit: lim})
	if err != nil {
		// UPSTREAM_UNAVAILABLE / BAD_QUERY の区別は潰さずそのまま返す
		return pagination.Page[gateway.Doc]{}, err
	}
	return pagination.Build(res.Docs, res.Total, skip, lim), nil
}

// storage: 業務エラーはそのまま、想定外の失敗はログに残して INTERNAL に包む
func storage(err error, msg string) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	log.Printf("%s: %v", msg, err)
	return apperr.ErrInternal(msg)
}
