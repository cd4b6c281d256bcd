// Package gateway は外部書籍カタログ検索の抽象。プロバイダは設定から起動時に
// 一度だけ解決し、未知の名前は即時に致命エラーとする（リクエスト毎には判定しない）。
package gateway

import (
	"context"
	"fmt"
	"strings"

	"library-backend/internal/platform/db"
)

type Query struct {
	Q     string
	Page  int
	Limit int
}

// Doc は外部レコードを内部形に写したもの。著者は上流に無ければ省略される。
type Doc struct {
	Title  string  `json:"title"`
	Author *string `json:"author,omitempty"`
}

type Result struct {
	Docs  []Doc
	Total int64
}

type Gateway interface {
	Search(ctx context.Context, q Query) (Result, error)
}

const ProviderOpenLibrary = "openlibrary"

// New: 設定のプロバイダ名から実装を解決する
func New(cfg db.GatewayConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenLibrary:
		return NewOpenLibrary(cfg.OpenLibraryAPI)
	default:
		return nil, fmt.Errorf("unknown library gateway provider %q encountered in config", cfg.Provider)
	}
}
