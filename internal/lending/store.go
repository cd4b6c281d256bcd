package lending

import (
	"context"
	"database/sql"
	"time"

	"library-backend/internal/apperr"
	"library-backend/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// lockBookRow: 書籍行をロックして在庫数を得る。貸出・返却はどちらも
// 最初にこのロックを取るので、同一書籍への操作は直列化される
func (s *Store) lockBookRow(ctx context.Context, tx db.DBTX, bookID int64) (copies int, err error) {
	const q = `SELECT available_copies FROM books WHERE book_id = ? FOR UPDATE`
	if err = tx.QueryRowContext(ctx, q, bookID).Scan(&copies); err != nil {
		if err == sql.ErrNoRows {
			return 0, apperr.ErrNotFound("book not found")
		}
		return 0, err
	}
	return copies, nil
}

// findOpenBorrow: (user, book) の未返却貸出を探す。無ければ nil
func (s *Store) findOpenBorrow(ctx context.Context, tx db.DBTX, userID, bookID int64) (*Borrow, error) {
	const q = `
	SELECT borrow_id, borrow_ulid, book_id, user_id, borrow_date, due_date, return_date
	FROM borrows
	WHERE user_id = ? AND book_id = ? AND return_date IS NULL
	LIMIT 1`

	var b Borrow
	err := tx.QueryRowContext(ctx, q, userID, bookID).Scan(
		&b.BorrowID, &b.BorrowULID, &b.BookID, &b.UserID,
		&b.BorrowDate, &b.DueDate, &b.ReturnDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ---- Transactional Methods ----

// ExecBorrow は貸出を1トランザクションで確定する。
// 在庫チェック・重複貸出チェック・台帳行の作成・在庫減算をロック下で行い、
// 途中で失敗したら全て巻き戻す。減算は条件付きUPDATEで二重に守る。
func (s *Store) ExecBorrow(ctx context.Context, b *Borrow) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		// 1. 書籍行をロック
		copies, err := s.lockBookRow(ctx, tx, b.BookID)
		if err != nil {
			return err
		}

		// 2. 在庫チェック
		if copies <= 0 {
			return apperr.ErrConflict("book not available for borrowing")
		}

		// 3. 未返却の重複貸出チェック
		open, err := s.findOpenBorrow(ctx, tx, b.UserID, b.BookID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperr.ErrAlreadyBorrowed()
		}

		// 4. 台帳へ記帳
		const ins = `
		INSERT INTO borrows (borrow_ulid, book_id, user_id, borrow_date, due_date, return_date)
		VALUES (?, ?, ?, ?, ?, NULL)`
		res, err := tx.ExecContext(ctx, ins,
			b.BorrowULID, b.BookID, b.UserID, b.BorrowDate, b.DueDate,
		)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		b.BorrowID = id

		// 5. 在庫減算（0未満に落とさないようUPDATE側でも条件を付ける）
		const dec = `
		UPDATE books SET available_copies = available_copies - 1
		WHERE book_id = ? AND available_copies > 0`
		res, err = tx.ExecContext(ctx, dec, b.BookID)
		if err != nil {
			return err
		}
		aff, _ := res.RowsAffected()
		if aff != 1 {
			return apperr.ErrConflict("book not available for borrowing")
		}
		return nil
	})
}

// ExecReturn は (user, book) の未返却貸出を閉じて在庫を戻す。
// ロック順は ExecBorrow と同じく書籍行が先
func (s *Store) ExecReturn(ctx context.Context, userID, bookID int64, returnedAt time.Time) (*Borrow, error) {
	var out *Borrow
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := s.lockBookRow(ctx, tx, bookID); err != nil {
			return err
		}

		open, err := s.findOpenBorrow(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}
		if open == nil {
			return apperr.ErrNotFound("open borrow not found")
		}

		const upd = `UPDATE borrows SET return_date = ? WHERE borrow_id = ?`
		res, err := tx.ExecContext(ctx, upd, returnedAt, open.BorrowID)
		if err != nil {
			return err
		}
		aff, _ := res.RowsAffected()
		if aff != 1 {
			return apperr.ErrInternal("failed to update borrows.return_date")
		}

		const inc = `UPDATE books SET available_copies = available_copies + 1 WHERE book_id = ?`
		if _, err := tx.ExecContext(ctx, inc, bookID); err != nil {
			return err
		}

		open.ReturnDate = sql.NullTime{Time: returnedAt, Valid: true}
		out = open
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Queries ----

// ListByUser はユーザーの貸出履歴（書籍JOIN済み）を貸出日の新しい順で返す
func (s *Store) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]BorrowedBook, int64, error) {
	var out []BorrowedBook
	var total int64

	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		const q = `
		SELECT
			br.borrow_id, br.borrow_ulid, br.book_id, br.user_id,
			br.borrow_date, br.due_date, br.return_date,
			b.title, b.author
		FROM borrows br
		JOIN books b ON b.book_id = br.book_id
		WHERE br.user_id = ?
		ORDER BY br.borrow_date DESC
		LIMIT ? OFFSET ?`

		rows, err := tx.QueryContext(ctx, q, userID, limit, skip)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r BorrowedBook
			if err := rows.Scan(
				&r.BorrowID, &r.BorrowULID, &r.BookID, &r.UserID,
				&r.BorrowDate, &r.DueDate, &r.ReturnDate,
				&r.BookTitle, &r.BookAuthor,
			); err != nil {
				return err
			}
			out = append(out, r)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		const cnt = `SELECT COUNT(*) FROM borrows WHERE user_id = ?`
		return tx.QueryRowContext(ctx, cnt, userID).Scan(&total)
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
