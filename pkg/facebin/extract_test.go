package facebin

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
)

// scenarioArchive はポインタテーブル [16, 0, 0, 0] の4キャラクターアーカイブを作成します。
// キャラクター0は無表情のみ固有の絵を持ち、表情1〜5はオフセット0を指します。
// キャラクター1〜3はオフセット0 (テーブル先頭) を共有します。
func scenarioArchive() ([]byte, []byte) {
	b := newArchiveBuilder(4)
	for id := 1; id < 4; id++ {
		b.putU32(uint32(id*4), 0)
	}
	c0 := b.addCharacter(0, 0x11, 0x00)
	tiles := []byte("neutral tiles for character zero")
	gfx := b.addStream(tiles)
	meta := b.addMetadata(8, 0x77)
	b.setSlot(c0, 0, gfx, meta)
	return b.bytes(), tiles
}

func TestExtract_Scenario_WithReference(t *testing.T) {
	data, tiles := scenarioArchive()

	opts := DefaultOptions()
	opts.ReferenceID = 1 // キャラクター1の表情1〜5はすべてオフセット0

	report, err := NewExtractor(opts).Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if report.Header.EntryCount != 4 {
		t.Errorf("EntryCount = %d, want 4", report.Header.EntryCount)
	}
	if len(report.Characters) != 1 {
		t.Fatalf("characters = %d, want 1", len(report.Characters))
	}

	c := report.Characters[0]
	if c.ID != 0 || c.Offset != 16 {
		t.Errorf("character = (%d, %d), want (0, 16)", c.ID, c.Offset)
	}
	if len(c.Expressions) != 1 {
		t.Fatalf("expressions = %d, want 1", len(c.Expressions))
	}
	expr := c.Expressions[0]
	if expr.TilesFileName() != "00_neutral_tiles.bin" {
		t.Errorf("TilesFileName() = %q", expr.TilesFileName())
	}
	if !bytes.Equal(expr.Tiles, tiles) {
		t.Errorf("tiles = %q, want %q", expr.Tiles, tiles)
	}
	if len(expr.Metadata) != 8 || expr.MetadataFileName() != "00_neutral_oam.bin" {
		t.Errorf("metadata = %X (%s)", expr.Metadata, expr.MetadataFileName())
	}
	if c.FallbackSkips != 5 {
		t.Errorf("character FallbackSkips = %d, want 5", c.FallbackSkips)
	}
	if !bytes.Equal(c.Palette1, bytes.Repeat([]byte{0x11}, PaletteSize)) {
		t.Errorf("palette1 = %X", c.Palette1)
	}
	if len(c.Palette2) != PaletteSize {
		t.Errorf("palette2 len = %d", len(c.Palette2))
	}

	// キャラクター2,3は全スロットが流用、参照キャラクター1は除外されず空ストリーム
	want := Stats{
		Characters:    1,
		Expressions:   1,
		FallbackSkips: 5 + 6 + 6,
		EmptyStreams:  6,
	}
	if report.Stats != want {
		t.Errorf("Stats = %+v, want %+v", report.Stats, want)
	}
}

func TestExtract_Scenario_WithoutReference(t *testing.T) {
	data, _ := scenarioArchive()

	// 参照キャラクター33は存在しないため除外判定は行われない
	report, err := NewExtractor(DefaultOptions()).Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(report.Characters) != 1 || len(report.Characters[0].Expressions) != 1 {
		t.Fatalf("characters = %+v", report.Characters)
	}
	if len(report.Signature) != 0 {
		t.Errorf("Signature = %v, want empty", report.Signature)
	}
	if report.Stats.FallbackSkips != 0 {
		t.Errorf("FallbackSkips = %d, want 0", report.Stats.FallbackSkips)
	}
	if report.Stats.EmptyStreams != 5+6*3 {
		t.Errorf("EmptyStreams = %d, want %d", report.Stats.EmptyStreams, 5+6*3)
	}
}

// referenceArchive は34キャラクターのうち 0, 5, 33 だけが存在するアーカイブを作成します
func referenceArchive() []byte {
	b := newArchiveBuilder(34)
	c0 := b.addCharacter(0, 0x01, 0x02)
	c5 := b.addCharacter(5, 0x03, 0x04)
	c33 := b.addCharacter(33, 0x05, 0x06)

	meta := b.addMetadata(16, 0xEE)
	var dachan [ExpressionCount]uint32
	for slot := 1; slot < ExpressionCount; slot++ {
		dachan[slot] = b.addStream(bytes.Repeat([]byte{byte(slot)}, 20))
	}

	b.setSlot(c0, 0, b.addStream([]byte("claire")), meta)
	for slot := 1; slot < ExpressionCount; slot++ {
		b.setSlot(c0, slot, dachan[slot], meta)
	}

	b.setSlot(c5, 0, b.addStream([]byte("five neutral")), meta)
	b.setSlot(c5, 1, b.addStream([]byte("five happy")), meta)
	b.setSlot(c5, 2, dachan[2], meta)
	// スロット3〜5はオフセット0 (タグ0x88) を指す

	b.setSlot(c33, 0, b.addStream([]byte("dachan neutral")), meta)
	for slot := 1; slot < ExpressionCount; slot++ {
		b.setSlot(c33, slot, dachan[slot], meta)
	}
	return b.bytes()
}

func TestExtract_ReferenceCharacter(t *testing.T) {
	report, err := NewExtractor(DefaultOptions()).Extract(context.Background(), referenceArchive())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(report.Signature) != 5 {
		t.Errorf("Signature size = %d, want 5", len(report.Signature))
	}

	wantSlots := map[int][]string{
		0:  {"neutral"},
		5:  {"neutral", "happy"},
		33: {"neutral", "happy", "angry", "sad", "love", "hate"},
	}
	if len(report.Characters) != len(wantSlots) {
		t.Fatalf("characters = %d, want %d", len(report.Characters), len(wantSlots))
	}
	for i, c := range report.Characters {
		if i > 0 && report.Characters[i-1].ID >= c.ID {
			t.Errorf("characters not ordered by ID: %d after %d", c.ID, report.Characters[i-1].ID)
		}
		want, ok := wantSlots[c.ID]
		if !ok {
			t.Errorf("unexpected character %d", c.ID)
			continue
		}
		var got []string
		for _, e := range c.Expressions {
			got = append(got, e.Name)
			if !e.HasMetadata() {
				t.Errorf("character %d %s: metadata missing", c.ID, e.Name)
			}
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("character %d expressions = %v, want %v", c.ID, got, want)
		}
	}

	want := Stats{
		Characters:    3,
		Expressions:   1 + 2 + 6,
		FallbackSkips: 5 + 1,
		OutOfBounds:   34 - 3,
		NotCompressed: 3,
	}
	if report.Stats != want {
		t.Errorf("Stats = %+v, want %+v", report.Stats, want)
	}
}

func TestExtract_SignatureSourceOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.SignatureSourceID = 0 // キャラクター0の表情1〜5から読み取る

	report, err := NewExtractor(opts).Extract(context.Background(), referenceArchive())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	base, err := NewExtractor(DefaultOptions()).Extract(context.Background(), referenceArchive())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !reflect.DeepEqual(report.Signature, base.Signature) {
		t.Errorf("Signature = %v, want %v", report.Signature.Offsets(), base.Signature.Offsets())
	}
	if report.Stats != base.Stats {
		t.Errorf("Stats = %+v, want %+v", report.Stats, base.Stats)
	}
}

func TestExtract_MalformedMetadata(t *testing.T) {
	b := newArchiveBuilder(1)
	c0 := b.addCharacter(0, 0, 0)
	b.setSlot(c0, 0, b.addStream([]byte("zero")), b.addMetadata(0, 0))
	b.setSlot(c0, 1, b.addStream([]byte("thousand")), b.addMetadata(1000, 0x01))
	b.setSlot(c0, 2, b.addStream([]byte("valid")), b.addMetadata(10, 0x02))
	b.setSlot(c0, 3, b.addStream([]byte("overrun")), 0xFFFFFFF0)

	report, err := NewExtractor(DefaultOptions()).Extract(context.Background(), b.bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(report.Characters) != 1 {
		t.Fatalf("characters = %d, want 1", len(report.Characters))
	}

	exprs := report.Characters[0].Expressions
	if len(exprs) != 4 {
		t.Fatalf("expressions = %d, want 4", len(exprs))
	}
	for _, e := range exprs {
		if len(e.Tiles) == 0 {
			t.Errorf("%s: tiles missing", e.Name)
		}
		wantMeta := e.Slot == 2
		if e.HasMetadata() != wantMeta {
			t.Errorf("%s: HasMetadata() = %v, want %v", e.Name, e.HasMetadata(), wantMeta)
		}
	}
	if report.Stats.MetadataDropped != 3 {
		t.Errorf("MetadataDropped = %d, want 3", report.Stats.MetadataDropped)
	}
}

func TestExtract_DecompressFailures(t *testing.T) {
	b := newArchiveBuilder(1)
	c0 := b.addCharacter(0, 0, 0)
	notCompressed := b.addMetadata(8, 0x20)
	b.setSlot(c0, 0, notCompressed, 0)
	for slot := 2; slot < ExpressionCount; slot++ {
		b.setSlot(c0, slot, 0xFFFFFF00, 0)
	}
	// 宣言10バイトに対してリテラル2バイトで末尾に到達する
	truncated := b.appendBytes([]byte{0x10, 0x0A, 0x00, 0x00, 0x00, 'a', 'b'})
	b.setSlot(c0, 1, truncated, 0)

	report, err := NewExtractor(DefaultOptions()).Extract(context.Background(), b.bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(report.Characters) != 0 {
		t.Errorf("characters = %d, want 0", len(report.Characters))
	}
	want := Stats{NotCompressed: 5, Truncated: 1}
	if report.Stats != want {
		t.Errorf("Stats = %+v, want %+v", report.Stats, want)
	}
	if report.Stats.DecompressFailures() != 6 {
		t.Errorf("DecompressFailures() = %d, want 6", report.Stats.DecompressFailures())
	}
}

func TestExtract_WorkersAndCache(t *testing.T) {
	data := referenceArchive()

	base := DefaultOptions()
	base.Workers = 1
	base.CacheSize = 0
	want, err := NewExtractor(base).Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	for _, tc := range []struct {
		workers, cache int
	}{
		{1, 16},
		{8, 0},
		{8, 2},
		{64, 256},
	} {
		opts := DefaultOptions()
		opts.Workers = tc.workers
		opts.CacheSize = tc.cache
		got, err := NewExtractor(opts).Extract(context.Background(), data)
		if err != nil {
			t.Fatalf("workers=%d cache=%d: Extract() error = %v", tc.workers, tc.cache, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("workers=%d cache=%d: report differs from sequential run", tc.workers, tc.cache)
		}
	}
}

func TestExtract_Errors(t *testing.T) {
	t.Run("キャラクター数が妥当範囲外", func(t *testing.T) {
		_, err := NewExtractor(DefaultOptions()).Extract(context.Background(), []byte{0, 0, 0, 0, 0x10})
		if !errors.Is(err, ErrImplausibleLayout) {
			t.Errorf("Extract() error = %v, want ErrImplausibleLayout", err)
		}
	})

	t.Run("表情名の数が不正", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ExpressionNames = []string{"neutral"}
		_, err := NewExtractor(opts).Extract(context.Background(), referenceArchive())
		if !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("Extract() error = %v, want ErrInvalidOptions", err)
		}
	})

	t.Run("キャンセル済みのコンテキスト", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		report, err := NewExtractor(DefaultOptions()).Extract(ctx, referenceArchive())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Extract() error = %v, want context.Canceled", err)
		}
		if report != nil {
			t.Error("report should be nil on cancellation")
		}
	})
}
