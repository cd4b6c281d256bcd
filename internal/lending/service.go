package lending

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"log"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"library-backend/internal/apperr"
	"library-backend/internal/pagination"
)

// 貸出期間は14日固定
const LoanPeriod = 14 * 24 * time.Hour

// -------------- Clock & ID --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// -------------- Service --------------

// LedgerStore は貸出台帳の能力。SQL実装の他、テストではインメモリ実装を差す
type LedgerStore interface {
	ExecBorrow(ctx context.Context, b *Borrow) error
	ExecReturn(ctx context.Context, userID, bookID int64, returnedAt time.Time) (*Borrow, error)
	ListByUser(ctx context.Context, userID int64, skip, limit int) ([]BorrowedBook, int64, error)
}

type Service struct {
	store LedgerStore
	clock Clock
	id    IDGen
}

func NewService(conn *sql.DB) *Service {
	return &Service{
		store: NewStore(conn),
		clock: realClock{},
		id:    ulidGen{},
	}
}

// 貸出。返却期限は貸出時刻+14日を記帳と同時に確定する
func (s *Service) Borrow(ctx context.Context, bookID, userID int64) (*BorrowAck, error) {
	if bookID <= 0 {
		return nil, apperr.ErrInvalid("book id must be > 0")
	}
	if userID <= 0 {
		return nil, apperr.ErrInvalid("user id must be > 0")
	}

	now := s.clock.Now()
	b := &Borrow{
		BorrowULID: s.id.NewULID(now),
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: now,
		DueDate:    now.Add(LoanPeriod),
	}

	if err := s.store.ExecBorrow(ctx, b); err != nil {
		return nil, storage(err, "error occurred while borrowing a book")
	}

	return &BorrowAck{
		Message:    "Book borrowed successfully",
		BorrowULID: b.BorrowULID,
		DueDate:    b.DueDate,
	}, nil
}

// 返却
func (s *Service) Return(ctx context.Context, bookID, userID int64) (*ReturnAck, error) {
	if bookID <= 0 {
		return nil, apperr.ErrInvalid("book id must be > 0")
	}
	if userID <= 0 {
		return nil, apperr.ErrInvalid("user id must be > 0")
	}

	now := s.clock.Now()
	b, err := s.store.ExecReturn(ctx, userID, bookID, now)
	if err != nil {
		return nil, storage(err, "error occurred while returning a book")
	}

	return &ReturnAck{
		Message:    "Book returned successfully",
		BorrowULID: b.BorrowULID,
		ReturnDate: now,
	}, nil
}

// 貸出一覧（書籍JOIN済み、貸出日の新しい順）
func (s *Service) ListBorrowed(ctx context.Context, userID int64, page, limit int) (pagination.Page[BorrowedBookResponse], error) {
	if userID <= 0 {
		return pagination.Page[BorrowedBookResponse]{}, apperr.ErrInvalid("user id must be > 0")
	}
	skip, lim := pagination.Window(page, pagination.ClampLimit(limit))

	rows, total, err := s.store.ListByUser(ctx, userID, skip, lim)
	if err != nil {
		return pagination.Page[BorrowedBookResponse]{}, storage(err, "error fetching borrowed books")
	}

	resps := make([]BorrowedBookResponse, 0, len(rows))
	for i := range rows {
		resps = append(resps, buildBorrowedBookResponse(&rows[i]))
	}
	return pagination.Build(resps, total, skip, lim), nil
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
