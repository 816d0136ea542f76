package lz77

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCompressed は指定位置がLZ77ストリームではない場合のエラー
	ErrNotCompressed = errors.New("lz77: 圧縮ストリームではありません")

	// ErrTruncated は宣言サイズに達する前に入力が尽きた場合のエラー
	ErrTruncated = errors.New("lz77: ストリームが途中で終わっています")
)

// Error は展開失敗の詳細を保持します
type Error struct {
	Kind   error // ErrNotCompressed または ErrTruncated
	Offset int   // ストリームの開始位置
	Pos    int   // 失敗時の入力位置
}

// Error はエラーメッセージを返します
func (e *Error) Error() string {
	return fmt.Sprintf("%v (offset=0x%08X, pos=0x%08X)", e.Kind, e.Offset, e.Pos)
}

// Unwrap は元のエラーを返します
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, offset, pos int) *Error {
	return &Error{Kind: kind, Offset: offset, Pos: pos}
}
