package lending

import (
	"database/sql"
	"time"
)

// Borrow は borrows テーブルの1行を表す。ReturnDate が NULL の間は「未返却」
type Borrow struct {
	BorrowID   int64
	BorrowULID string
	BookID     int64
	UserID     int64
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate sql.NullTime
}

// Open: 未返却かどうか
func (b *Borrow) Open() bool { return !b.ReturnDate.Valid }

// BorrowedBook は貸出行に書籍情報をJOINした一覧用の行
type BorrowedBook struct {
	Borrow
	BookTitle  string
	BookAuthor string
}
