package lending

import "time"

// 貸出成功レスポンス（確認応答 + 参照用ULID）
type BorrowAck struct {
	Message    string    `json:"message"`
	BorrowULID string    `json:"borrow_ulid"`
	DueDate    time.Time `json:"due_date"`
}

// 返却成功レスポンス
type ReturnAck struct {
	Message    string    `json:"message"`
	BorrowULID string    `json:"borrow_ulid"`
	ReturnDate time.Time `json:"return_date"`
}

// 貸出一覧の1行
type BorrowedBookResponse struct {
	BorrowULID string     `json:"borrow_ulid"`
	BookID     int64      `json:"book_id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

func buildBorrowedBookResponse(r *BorrowedBook) BorrowedBookResponse {
	resp := BorrowedBookResponse{
		BorrowULID: r.BorrowULID,
		BookID:     r.BookID,
		Title:      r.BookTitle,
		Author:     r.BookAuthor,
		BorrowDate: r.BorrowDate,
		DueDate:    r.DueDate,
	}
	if r.ReturnDate.Valid {
		val := r.ReturnDate.Time
		resp.ReturnDate = &val
	}
	return resp
}
