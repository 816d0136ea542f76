package facebin

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/shiroemons/go-facebin/pkg/lz77"
)

// Options は抽出処理の設定
type Options struct {
	// ReferenceID はテンプレート表情の持ち主で、除外判定の対象外となるキャラクター
	ReferenceID int

	// SignatureSourceID はテンプレートのオフセットを読み取るキャラクター。負の値なら ReferenceID
	SignatureSourceID int

	// ExpressionNames は表情スロット0〜5の名前
	ExpressionNames []string

	// Workers は並列に処理するキャラクター数。1以下なら順次処理
	Workers int

	// CacheSize は展開結果をキャッシュするストリーム数。0以下ならキャッシュしない
	CacheSize int

	Logger hclog.Logger
}

// DefaultOptions はデフォルトの設定を返します
func DefaultOptions() Options {
	names := make([]string, len(DefaultExpressionNames))
	copy(names, DefaultExpressionNames)
	return Options{
		ReferenceID:       DefaultReferenceID,
		SignatureSourceID: -1,
		ExpressionNames:   names,
		Workers:           4,
		CacheSize:         256,
	}
}

// SignatureSource はテンプレートのオフセットを読み取るキャラクターIDを返します
func (o Options) SignatureSource() int {
	if o.SignatureSourceID < 0 {
		return o.ReferenceID
	}
	return o.SignatureSourceID
}

// Extractor は face.bin から出力対象のキャラクターを抽出します
type Extractor struct {
	opts   Options
	logger hclog.Logger
}

// NewExtractor は新しいExtractorを作成します
func NewExtractor(opts Options) *Extractor {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.ExpressionNames == nil {
		opts.ExpressionNames = DefaultExpressionNames
	}
	return &Extractor{opts: opts, logger: logger}
}

// decoded は展開結果のキャッシュエントリ
type decoded struct {
	tiles []byte
	err   error
}

// characterResult は1キャラクター分の処理結果。record が nil なら出力なし
type characterResult struct {
	record *CharacterRecord
	stats  Stats
}

// scan は1回の Extract 呼び出しで共有する読み取り専用の状態
type scan struct {
	idx   *Index
	sig   Signature
	cache *lru.Cache[uint32, decoded]
}

// Extract はアーカイブ全体を走査して出力対象のキャラクターを集めます。
// キャラクター数が妥当範囲外の場合のみエラーを返し、個々のレコードの問題は Stats に集計されます。
// ctx はキャラクターの処理の合間に確認され、キャンセル時は結果を返しません。
func (e *Extractor) Extract(ctx context.Context, data []byte) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if len(e.opts.ExpressionNames) != ExpressionCount {
		return nil, fmt.Errorf("%w: 表情名は %d 個必要です (%d 個指定)", ErrInvalidOptions, ExpressionCount, len(e.opts.ExpressionNames))
	}

	idx, err := NewIndex(data)
	if err != nil {
		return nil, err
	}
	header := idx.Header()
	e.logger.Debug("ヘッダを読み込みました",
		"first_pointer", fmt.Sprintf("0x%08X", header.FirstPointer),
		"table_span", header.TableSpan,
		"characters", header.EntryCount)

	sourceID := e.opts.SignatureSource()
	sig, err := ReferenceSignature(idx, sourceID)
	if err != nil {
		e.logger.Warn("テンプレート表情のオフセットを取得できません。除外判定を行いません", "source", sourceID, "error", err)
	} else {
		e.logger.Debug("テンプレート表情のオフセット", "source", sourceID, "offsets", sig.Offsets())
	}

	s := &scan{idx: idx, sig: sig}
	if e.opts.CacheSize > 0 {
		cache, err := lru.New[uint32, decoded](e.opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: キャッシュサイズ %d: %w", ErrInvalidOptions, e.opts.CacheSize, err)
		}
		s.cache = cache
	}

	results := make([]characterResult, header.EntryCount)

	workers := e.opts.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for id := 0; id < header.EntryCount; id++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[id] = e.extractCharacter(s, id)
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	report := &Report{Header: header, Signature: sig}
	for _, r := range results {
		report.Stats.Add(r.stats)
		if r.record != nil {
			report.Characters = append(report.Characters, *r.record)
		}
	}
	return report, nil
}

// extractCharacter は1キャラクター分の表情を展開します
func (e *Extractor) extractCharacter(s *scan, id int) characterResult {
	var st Stats
	logger := e.logger.With("character", id)

	charOffset, err := s.idx.CharacterOffset(id)
	if err != nil {
		st.OutOfBounds++
		logger.Trace("キャラクターをスキップします", "error", err)
		return characterResult{stats: st}
	}

	var exprs []Expression
	for slot, name := range e.opts.ExpressionNames {
		gfx, err := s.idx.SubTablePointer(charOffset, GraphicsEntry(slot))
		if err != nil {
			st.OutOfBounds++
			logger.Trace("グラフィックポインタが範囲外です", "slot", slot, "error", err)
			continue
		}

		if IsFallback(id, e.opts.ReferenceID, gfx, s.sig) {
			st.FallbackSkips++
			logger.Trace("テンプレート表情を除外します", "slot", slot, "offset", fmt.Sprintf("0x%08X", gfx))
			continue
		}

		meta, err := s.idx.SubTablePointer(charOffset, MetadataEntry(slot))
		if err != nil {
			st.OutOfBounds++
			logger.Trace("メタデータポインタが範囲外です", "slot", slot, "error", err)
			continue
		}

		tiles, err := e.decompress(s, gfx)
		switch {
		case errors.Is(err, lz77.ErrNotCompressed):
			st.NotCompressed++
			logger.Trace("圧縮ストリームではありません", "slot", slot, "error", err)
			continue
		case errors.Is(err, lz77.ErrTruncated):
			st.Truncated++
			logger.Debug("圧縮ストリームが途中で終わっています", "slot", slot, "error", err)
			continue
		case err != nil:
			// lz77 は上の2種類以外を返さない
			st.Truncated++
			logger.Debug("展開に失敗しました", "slot", slot, "error", err)
			continue
		case len(tiles) == 0:
			st.EmptyStreams++
			logger.Trace("展開結果が空です", "slot", slot)
			continue
		}

		md, err := s.idx.Metadata(meta)
		if err != nil {
			st.MetadataDropped++
			logger.Debug("メタデータを破棄します", "slot", slot, "error", err)
			md = nil
		}

		exprs = append(exprs, Expression{
			Slot:           slot,
			Name:           name,
			GraphicsOffset: gfx,
			MetadataOffset: meta,
			Tiles:          tiles,
			Metadata:       md,
		})
	}

	if len(exprs) == 0 {
		return characterResult{stats: st}
	}

	p1, p2, err := s.idx.PaletteBlocks(charOffset)
	if err != nil {
		st.OutOfBounds++
		logger.Debug("パレットが範囲外です", "error", err)
		return characterResult{stats: st}
	}

	st.Characters = 1
	st.Expressions = len(exprs)
	logger.Debug("キャラクターを抽出しました", "offset", fmt.Sprintf("0x%08X", charOffset), "expressions", len(exprs))

	return characterResult{
		record: &CharacterRecord{
			ID:          id,
			Offset:      charOffset,
			Palette1:    p1,
			Palette2:    p2,
			Expressions: exprs,

			FallbackSkips: st.FallbackSkips,
		},
		stats: st,
	}
}

// decompress はキャッシュを確認してからストリームを展開します
func (e *Extractor) decompress(s *scan, offset uint32) ([]byte, error) {
	if s.cache != nil {
		if d, ok := s.cache.Get(offset); ok {
			return d.tiles, d.err
		}
	}

	tiles, err := lz77.Decompress(s.idx.Bytes(), int(offset))
	if s.cache != nil {
		s.cache.Add(offset, decoded{tiles: tiles, err: err})
	}
	return tiles, err
}
