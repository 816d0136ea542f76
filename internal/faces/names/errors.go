package names

import "errors"

var (
	// ErrReadNames は名前リストの読み込みに失敗した場合のエラー
	ErrReadNames = errors.New("名前リストの読み込みに失敗しました")

	// ErrDecodeNames は名前リストの文字コード変換に失敗した場合のエラー
	ErrDecodeNames = errors.New("名前リストの文字コード変換に失敗しました")
)
