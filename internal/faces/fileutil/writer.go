package fileutil

import (
	"fmt"
	"path/filepath"

	"github.com/shiroemons/go-facebin/internal/faces/interfaces"
	"github.com/shiroemons/go-facebin/pkg/facebin"
)

// RecordWriter は抽出したキャラクターをファイルとして保存します
type RecordWriter struct {
	fs     interfaces.FileSystem
	outDir string
	dryRun bool
}

// NewRecordWriter は新しいRecordWriterを作成します。dryRun の場合は何も書き込みません。
func NewRecordWriter(fs interfaces.FileSystem, outDir string, dryRun bool) *RecordWriter {
	return &RecordWriter{fs: fs, outDir: outDir, dryRun: dryRun}
}

// Files はキャラクターの出力ファイル名と内容を書き込み順に返します
func Files(rec facebin.CharacterRecord) []NamedBlob {
	files := []NamedBlob{
		{Name: "palette1.bin", Data: rec.Palette1},
		{Name: "palette2.bin", Data: rec.Palette2},
	}
	for _, e := range rec.Expressions {
		files = append(files, NamedBlob{Name: e.TilesFileName(), Data: e.Tiles})
		if e.HasMetadata() {
			files = append(files, NamedBlob{Name: e.MetadataFileName(), Data: e.Metadata})
		}
	}
	return files
}

// NamedBlob は名前付きのバイト列
type NamedBlob struct {
	Name string
	Data []byte
}

// WriteCharacter はキャラクターのパレットと表情を保存し、書き込んだファイル数を返します
func (w *RecordWriter) WriteCharacter(rec facebin.CharacterRecord, name string) (int, error) {
	dir := CharacterDir(w.outDir, rec.ID, name)
	files := Files(rec)
	if w.dryRun {
		return len(files), nil
	}

	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrCreateDirectory, dir, err)
	}

	for i, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := w.fs.WriteFile(path, f.Data, 0644); err != nil {
			return i, fmt.Errorf("%w: %s: %w", ErrWriteContent, path, err)
		}
	}
	return len(files), nil
}

// WriteSummary はUTF-8 BOM付きで集計結果を保存し、保存先のパスを返します
func (w *RecordWriter) WriteSummary(filename, content string) (string, error) {
	path := filepath.Join(w.outDir, filename)
	if w.dryRun {
		return path, nil
	}

	if err := w.fs.MkdirAll(w.outDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCreateDirectory, w.outDir, err)
	}
	if err := w.fs.WriteFile(path, EncodeWithBOM(content), 0644); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteContent, path, err)
	}
	return path, nil
}
