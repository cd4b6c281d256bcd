package books

import "time"

// 書籍登録リクエスト
type CreateBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	// 0冊での登録も許す（在庫なしの先行登録）
	AvailableCopies int `json:"available_copies"`
}

// 書籍レスポンス
type BookResponse struct {
	BookID          int64     `json:"book_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
}

func buildBookResponse(b *Book) BookResponse {
	return BookResponse{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		AvailableCopies: b.AvailableCopies,
		CreatedAt:       b.CreatedAt,
	}
}
