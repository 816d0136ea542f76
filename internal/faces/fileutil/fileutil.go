// Package fileutil はファイル操作のユーティリティ関数を提供します
package fileutil

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// unsafeNameChars はディレクトリ名に使えない文字のパターン
	unsafeNameChars = regexp.MustCompile(`[^\p{L}\p{N}_\-]+`)

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// DecodeText は指定された文字コードのテキストをUTF-8に変換します。
// 先頭にBOMがある場合はBOMを優先します。
func DecodeText(data []byte, enc string) (string, error) {
	var fallback encoding.Encoding
	switch strings.ToLower(enc) {
	case "", "utf8", "utf-8":
		fallback = unicode.UTF8
	case "sjis", "shift_jis", "shift-jis", "cp932":
		fallback = japanese.ShiftJIS
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownEncoding, enc)
	}

	decoder := unicode.BOMOverride(fallback.NewDecoder())
	ret, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecodeText, err)
	}
	return string(ret), nil
}

// EncodeWithBOM はUTF-8 BOM付きのバイト列を返します
func EncodeWithBOM(content string) []byte {
	out := make([]byte, 0, len(utf8BOM)+len(content))
	out = append(out, utf8BOM...)
	return append(out, content...)
}

// SanitizeName はキャラクター名をディレクトリ名に使える形に整えます
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = unsafeNameChars.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// CharacterDir はキャラクターの出力ディレクトリを返します (例: out/00/binFiles, out/00_Claire/binFiles)
func CharacterDir(outDir string, id int, name string) string {
	dir := fmt.Sprintf("%02d", id)
	if safe := SanitizeName(name); safe != "" {
		dir = dir + "_" + safe
	}
	return filepath.Join(outDir, dir, "binFiles")
}
