package books

import (
	"context"
	"database/sql"
	"strings"

	"library-backend/internal/apperr"
	"library-backend/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// Insert は書籍を登録し、DB側で採番された id と created_at を反映して返す
func (s *Store) Insert(ctx context.Context, b *Book) error {
	const q = `
	INSERT INTO books (title, author, available_copies, created_at)
	VALUES (?, ?, ?, UTC_TIMESTAMP(6))`

	res, err := s.db.ExecContext(ctx, q, b.Title, b.Author, b.AvailableCopies)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	b.BookID = id

	// created_at はDB採番なので確定行から取り直す
	const sel = `SELECT created_at FROM books WHERE book_id = ?`
	if err := s.db.QueryRowContext(ctx, sel, id).Scan(&b.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return apperr.ErrInternal("inserted but not found")
		}
		return err
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Book, error) {
	const q = `
	SELECT book_id, title, author, available_copies, created_at
	FROM books WHERE book_id = ?`

	var b Book
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&b.BookID, &b.Title, &b.Author, &b.AvailableCopies, &b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound("book not found")
		}
		return nil, err
	}
	return &b, nil
}

// List は登録の新しい順に1ページ分と総件数を返す。
// 件数とページを同一スナップショットで取るため読み取り専用Txで実行する。
func (s *Store) List(ctx context.Context, f Filter, skip, limit int) ([]Book, int64, error) {
	sb := strings.Builder{}
	sb.WriteString(` FROM books WHERE 1=1`)

	args := []any{}
	if f.Q != "" {
		sb.WriteString(` AND LOWER(title) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.Q)+"%")
	}
	where := sb.String()

	var out []Book
	var total int64

	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		q := `SELECT book_id, title, author, available_copies, created_at` +
			where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
		rows, err := tx.QueryContext(ctx, q, append(args, limit, skip)...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b Book
			if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.AvailableCopies, &b.CreatedAt); err != nil {
				return err
			}
			out = append(out, b)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		return tx.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total)
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
