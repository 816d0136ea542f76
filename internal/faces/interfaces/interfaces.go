// Package interfaces はfacebinコマンドで使用するインターフェースを定義します
package interfaces

import (
	"context"

	"github.com/shiroemons/go-facebin/pkg/facebin"
)

// FileSystem はファイルシステム操作のインターフェース
type FileSystem interface {
	FileExists(filename string) bool
	ReadFile(filename string) ([]byte, error)
	WriteFile(filename string, data []byte, perm uint32) error
	MkdirAll(path string, perm uint32) error
}

// Extractor はアーカイブから出力対象のキャラクターを抽出するインターフェースです
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*facebin.Report, error)
}
