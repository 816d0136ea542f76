package app

import "errors"

var (
	// ErrExtract はアーカイブの解析に失敗した場合のエラー
	ErrExtract = errors.New("face.bin の解析に失敗しました")

	// ErrWriteOutput はキャラクターの保存に失敗した場合のエラー
	ErrWriteOutput = errors.New("キャラクターの保存に失敗しました")

	// ErrSaveSummary は集計結果の保存に失敗した場合のエラー
	ErrSaveSummary = errors.New("集計結果の保存に失敗しました")
)
