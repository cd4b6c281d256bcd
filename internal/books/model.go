package books

import "time"

// Book は books テーブルの1行を表す
type Book struct {
	BookID          int64
	Title           string
	Author          string
	AvailableCopies int
	CreatedAt       time.Time
}

// 一覧取得用の検索条件
type Filter struct {
	// タイトルの部分一致（大文字小文字を区別しない）
	Q string
}
