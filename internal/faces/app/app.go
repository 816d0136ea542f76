// Package app はアプリケーションのメインロジックを実装します
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/shiroemons/go-facebin/internal/faces/config"
	faceserrors "github.com/shiroemons/go-facebin/internal/faces/errors"
	"github.com/shiroemons/go-facebin/internal/faces/fileutil"
	"github.com/shiroemons/go-facebin/internal/faces/interfaces"
	"github.com/shiroemons/go-facebin/internal/faces/names"
	"github.com/shiroemons/go-facebin/pkg/facebin"
)

// App はアプリケーションのメインロジックを管理します
type App struct {
	config    *config.Config
	logger    hclog.Logger
	extractor interfaces.Extractor
	fs        interfaces.FileSystem
	stdout    io.Writer
}

// Options はAppの設定オプション
type Options struct {
	FileSystem interfaces.FileSystem
	Extractor  interfaces.Extractor
	Logger     hclog.Logger
	Stdout     io.Writer
}

// New は新しいAppを作成します
func New(cfg *config.Config) *App {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions は新しいAppをオプション付きで作成します
func NewWithOptions(cfg *config.Config, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = config.NewLogger("facebin", cfg.ResolveLogLevel(), os.Stderr)
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	extractor := opts.Extractor
	if extractor == nil {
		extractor = facebin.NewExtractor(cfg.ExtractOptions(logger.Named("extract")))
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return &App{
		config:    cfg,
		logger:    logger,
		extractor: extractor,
		fs:        fs,
		stdout:    stdout,
	}
}

// Run はアーカイブからキャラクターを抽出して保存します
func (a *App) Run(ctx context.Context) error {
	data, err := a.readArchive(ctx)
	if err != nil {
		return err
	}

	list, err := names.Load(a.fs, a.config.NamesPath, a.config.NamesEncoding)
	if err != nil {
		return err
	}

	report, err := a.extractor.Extract(ctx, data)
	if err != nil {
		return faceserrors.NewArchiveError("extract", a.config.ArchivePath, fmt.Errorf("%w: %w", ErrExtract, err))
	}

	writer := fileutil.NewRecordWriter(a.fs, a.config.OutputDir, a.config.DryRun)
	files := 0
	for _, rec := range report.Characters {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name := list.Lookup(rec.ID)
		n, err := writer.WriteCharacter(rec, name)
		files += n
		if err != nil {
			return faceserrors.NewCharacterError(rec.ID, fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
		a.logger.Info("キャラクターを保存しました",
			"character", rec.ID,
			"dir", fileutil.CharacterDir(a.config.OutputDir, rec.ID, name),
			"files", n)
	}

	summary := a.generateSummary(report, list, files)

	if a.config.SummaryFile != "" {
		path, err := writer.WriteSummary(a.config.SummaryFile, summary)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSaveSummary, err)
		}
		a.logger.Info("集計結果を保存しました", "path", path, "dry_run", a.config.DryRun)
	}

	fmt.Fprint(a.stdout, summary)
	return nil
}

// readArchive はアーカイブを読み込みます
func (a *App) readArchive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path := a.config.ArchivePath
	if path == "" {
		return nil, faceserrors.ErrArchiveRequired
	}
	if !a.fs.FileExists(path) {
		return nil, faceserrors.NewArchiveError("open", path, faceserrors.ErrFileNotFound)
	}

	a.logger.Debug("アーカイブを読み込みます", "path", path)
	data, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, faceserrors.NewArchiveError("read", path, err)
	}
	return data, nil
}

// generateSummary は集計結果のテキストを生成します
func (a *App) generateSummary(report *facebin.Report, list *names.List, files int) string {
	var builder strings.Builder
	st := report.Stats

	builder.WriteString("#face.bin 抽出結果\n")
	if a.config.DryRun {
		builder.WriteString("#ドライラン: ファイルは書き込まれていません\n")
	}
	fmt.Fprintf(&builder, "アーカイブ: %s\n", a.config.ArchivePath)
	fmt.Fprintf(&builder, "キャラクター数: %d (テーブル長 0x%X)\n", report.Header.EntryCount, report.Header.TableSpan)
	fmt.Fprintf(&builder, "テンプレート: %02d (オフセット %s)\n", a.config.ReferenceID, formatOffsets(report.Signature.Offsets()))
	fmt.Fprintf(&builder, "出力キャラクター: %d\n", st.Characters)
	fmt.Fprintf(&builder, "出力表情: %d\n", st.Expressions)
	fmt.Fprintf(&builder, "出力ファイル: %d\n", files)
	fmt.Fprintf(&builder, "テンプレート流用: %d\n", st.FallbackSkips)
	fmt.Fprintf(&builder, "展開失敗: %d (非圧縮 %d, 途中終了 %d, 空 %d)\n",
		st.DecompressFailures(), st.NotCompressed, st.Truncated, st.EmptyStreams)
	fmt.Fprintf(&builder, "範囲外: %d\n", st.OutOfBounds)
	fmt.Fprintf(&builder, "メタデータ破棄: %d\n", st.MetadataDropped)

	if len(report.Characters) > 0 {
		builder.WriteString("#キャラクター\n")
	}
	for _, rec := range report.Characters {
		label := fmt.Sprintf("%02d", rec.ID)
		if name := list.Lookup(rec.ID); name != "" {
			label += " " + name
		}
		exprs := make([]string, 0, len(rec.Expressions))
		for _, e := range rec.Expressions {
			exprs = append(exprs, fmt.Sprintf("%02d_%s", e.Slot, e.Name))
		}
		fmt.Fprintf(&builder, "%s,0x%08X,%s\n", label, rec.Offset, strings.Join(exprs, " "))
	}

	return builder.String()
}

func formatOffsets(offsets []uint32) string {
	if len(offsets) == 0 {
		return "なし"
	}
	parts := make([]string, len(offsets))
	for i, off := range offsets {
		parts[i] = fmt.Sprintf("0x%08X", off)
	}
	return strings.Join(parts, " ")
}
