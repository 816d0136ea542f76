package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shiroemons/go-facebin/internal/faces/names"
	"github.com/shiroemons/go-facebin/pkg/facebin"
)

// List はアーカイブのポインタテーブルと各キャラクターの表情ポインタを表示します。
// テンプレート流用と判定されるスロットには * を付けます。
func (a *App) List(ctx context.Context) error {
	data, err := a.readArchive(ctx)
	if err != nil {
		return err
	}

	list, err := names.Load(a.fs, a.config.NamesPath, a.config.NamesEncoding)
	if err != nil {
		return err
	}

	idx, err := facebin.NewIndex(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}

	opts := a.config.ExtractOptions(a.logger)
	sig, err := facebin.ReferenceSignature(idx, opts.SignatureSource())
	if err != nil {
		a.logger.Warn("テンプレート表情のオフセットを取得できません", "source", opts.SignatureSource(), "error", err)
	}

	header := idx.Header()
	fmt.Fprintf(a.stdout, "キャラクター数: %d (テーブル長 0x%X)\n", header.EntryCount, header.TableSpan)
	fmt.Fprintf(a.stdout, "テンプレート: %02d (オフセット %s)\n", opts.ReferenceID, formatOffsets(sig.Offsets()))

	for id := 0; id < header.EntryCount; id++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		fmt.Fprintln(a.stdout, listLine(idx, sig, opts.ReferenceID, id, list.Lookup(id)))
	}
	return nil
}

// listLine は1キャラクター分の表示行を生成します
func listLine(idx *facebin.Index, sig facebin.Signature, referenceID, id int, name string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%02d", id)
	if name != "" {
		fmt.Fprintf(&builder, " %s", name)
	}

	charOffset, err := idx.CharacterOffset(id)
	if err != nil {
		builder.WriteString(" 範囲外")
		return builder.String()
	}
	fmt.Fprintf(&builder, " 0x%08X", charOffset)

	for slot := 0; slot < facebin.ExpressionCount; slot++ {
		gfx, gerr := idx.SubTablePointer(charOffset, facebin.GraphicsEntry(slot))
		meta, merr := idx.SubTablePointer(charOffset, facebin.MetadataEntry(slot))
		if gerr != nil || merr != nil {
			fmt.Fprintf(&builder, " %d:-", slot)
			continue
		}
		mark := ""
		if facebin.IsFallback(id, referenceID, gfx, sig) {
			mark = "*"
		}
		fmt.Fprintf(&builder, " %d:%08X/%08X%s", slot, gfx, meta, mark)
	}
	return builder.String()
}
