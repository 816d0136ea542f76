// Package names はキャラクター名リストを読み込みます
package names

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/shiroemons/go-facebin/internal/faces/fileutil"
	"github.com/shiroemons/go-facebin/internal/faces/interfaces"
)

// List はキャラクターIDから名前を引くための一覧。行番号がそのままIDになります
type List struct {
	names []string
}

// Parse は1行1名の名前リストを解析します。
// 空行はIDを進めたまま名前なしとして扱い、# で始まる行はコメントとして読み飛ばします。
func Parse(data []byte, encoding string) (*List, error) {
	text, err := fileutil.DecodeText(data, encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeNames, err)
	}

	var list List
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		list.names = append(list.names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeNames, err)
	}
	return &list, nil
}

// Load はファイルから名前リストを読み込みます。path が空の場合は空のリストを返します
func Load(fs interfaces.FileSystem, path, encoding string) (*List, error) {
	if path == "" {
		return &List{}, nil
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadNames, path, err)
	}
	return Parse(data, encoding)
}

// Lookup はIDに対応する名前を返します。無い場合は空文字列
func (l *List) Lookup(id int) string {
	if l == nil || id < 0 || id >= len(l.names) {
		return ""
	}
	return l.names[id]
}

// Len は登録されている行数を返します
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}
