// Package facebin は牧場物語DS系の face.bin (顔グラフィックアーカイブ) を読み込むためのパッケージです。
//
// アーカイブの構造:
//
//	+0                     ポインタテーブル (キャラクターごとに uint32 LE)
//	char_offset + 0        パレット1 (32バイト)
//	char_offset + 32       パレット2 (32バイト)
//	char_offset + 64       サブテーブル (uint32 LE x 18)
//
// サブテーブルは表情ごとに3エントリ (グラフィック, OAMメタデータ, 未使用) を持ちます。
// グラフィックは lz77 パッケージで展開できるタイプ0x10の圧縮ストリームです。
//
// 基本的な使い方:
//
//	data, _ := os.ReadFile("face.bin")
//	ext := facebin.NewExtractor(facebin.DefaultOptions())
//	report, err := ext.Extract(ctx, data)
//	if err != nil {
//	    return err
//	}
//	for _, c := range report.Characters {
//	    // c.Palette1, c.Palette2, c.Expressions ...
//	}
package facebin

const (
	// PaletteSize はパレット1ブロックのバイト数 (16色 x 2バイト)
	PaletteSize = 32

	// SubTableOffset はキャラクター先頭からサブテーブルまでのオフセット
	SubTableOffset = PaletteSize * 2

	// SubTableEntries はサブテーブルのエントリ数
	SubTableEntries = 18

	// EntriesPerExpression は1表情あたりのサブテーブルエントリ数
	EntriesPerExpression = 3

	// ExpressionCount は1キャラクターあたりの表情スロット数
	ExpressionCount = SubTableEntries / EntriesPerExpression

	// MinEntryCount と MaxEntryCount はヘッダから求めたキャラクター数の妥当範囲
	MinEntryCount = 1
	MaxEntryCount = 500

	// MaxMetadataSize はメタデータ宣言長の上限 (この値自体は含まない)
	MaxMetadataSize = 1000

	// DefaultReferenceID はテンプレート表情を持つキャラクター (DaChan) のID
	DefaultReferenceID = 33
)

// DefaultExpressionNames は表情スロット0〜5の名前
var DefaultExpressionNames = []string{"neutral", "happy", "angry", "sad", "love", "hate"}

// GraphicsEntry は表情スロットのグラフィックポインタのサブテーブル位置を返します
func GraphicsEntry(slot int) int {
	return slot * EntriesPerExpression
}

// MetadataEntry は表情スロットのメタデータポインタのサブテーブル位置を返します
func MetadataEntry(slot int) int {
	return slot*EntriesPerExpression + 1
}
