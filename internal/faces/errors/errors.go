// Package errors はカスタムエラータイプを提供します
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound はファイルが見つからない場合のエラー
	ErrFileNotFound = errors.New("ファイルが見つかりません")

	// ErrArchiveRequired はアーカイブが指定されていない場合のエラー
	ErrArchiveRequired = errors.New("face.bin のパスを指定してください")
)

// ArchiveError はアーカイブ関連のエラー
type ArchiveError struct {
	Op   string // 実行していた操作
	Path string // ファイルパス
	Err  error  // 元のエラー
}

// Error はエラーメッセージを返します
func (e *ArchiveError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap は元のエラーを返します
func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// NewArchiveError は新しいArchiveErrorを作成します
func NewArchiveError(op, path string, err error) *ArchiveError {
	return &ArchiveError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// CharacterError は1キャラクターの出力に関するエラー
type CharacterError struct {
	ID  int   // キャラクターID
	Err error // 元のエラー
}

// Error はエラーメッセージを返します
func (e *CharacterError) Error() string {
	return fmt.Sprintf("キャラクター %02d: %v", e.ID, e.Err)
}

// Unwrap は元のエラーを返します
func (e *CharacterError) Unwrap() error {
	return e.Err
}

// NewCharacterError は新しいCharacterErrorを作成します
func NewCharacterError(id int, err error) *CharacterError {
	return &CharacterError{ID: id, Err: err}
}
