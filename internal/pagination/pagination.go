// Package pagination は page/limit 形式のリクエストを skip/limit の窓に正規化し、
// (rows, total) からメタデータ付きのページを組み立てる。純粋関数のみでI/Oなし。
// ローカルDBと外部ゲートウェイのどちらの結果にも同じ形を適用する。
package pagination

// Page は呼び出し側へ返すページビュー
type Page[T any] struct {
	Data          []T   `json:"data"`
	Limit         int   `json:"limit"`
	TotalDocs     int64 `json:"totalDocs"`
	TotalPages    int64 `json:"totalPages"`
	Page          int   `json:"page"`
	PagingCounter int   `json:"pagingCounter"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	NextPage      *int  `json:"nextPage"`
	PrevPage      *int  `json:"prevPage"`
}

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// ClampLimit: limit を [1, 50] に収める。未指定(0以下)は 10
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Window: page<=0 は 1 に丸めて skip を計算する
func Window(page, limit int) (skip, lim int) {
	if page <= 0 {
		page = 1
	}
	return (page - 1) * limit, limit
}

// Build は (rows, total, skip, limit) からページを復元する。
// skip=limit=0 のときは除算を 0 とみなして page=1 にする（ゼロ除算回避）。
func Build[T any](rows []T, total int64, skip, limit int) Page[T] {
	page := 1
	if limit > 0 {
		page = skip/limit + 1
	}

	var totalPages int64
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}

	p := Page[T]{
		Data:          rows,
		Limit:         limit,
		TotalDocs:     total,
		TotalPages:    totalPages,
		Page:          page,
		PagingCounter: (page-1)*limit + 1,
		HasNextPage:   int64(page) < totalPages,
		HasPrevPage:   page > 1 && int64(page) <= totalPages,
	}
	if p.Data == nil {
		p.Data = []T{}
	}
	if p.HasNextPage {
		n := page + 1
		p.NextPage = &n
	}
	if p.HasPrevPage {
		n := page - 1
		p.PrevPage = &n
	}
	return p
}
