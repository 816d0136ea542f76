package facebin

import "errors"

var (
	// ErrImplausibleLayout はヘッダから求めたキャラクター数が妥当範囲外の場合のエラー
	ErrImplausibleLayout = errors.New("face.bin のレイアウトが不正です")

	// ErrRecordOutOfBounds はポインタがアーカイブの範囲外を指す場合のエラー
	ErrRecordOutOfBounds = errors.New("レコードがアーカイブの範囲外です")

	// ErrMetadataMalformed はメタデータの宣言長が不正な場合のエラー
	ErrMetadataMalformed = errors.New("メタデータの長さが不正です")

	// ErrInvalidOptions は抽出オプションが不正な場合のエラー
	ErrInvalidOptions = errors.New("抽出オプションが不正です")
)
