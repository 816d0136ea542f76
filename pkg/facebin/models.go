package facebin

import "fmt"

// Expression は抽出された1つの表情
type Expression struct {
	Slot           int    // 表情スロット (0〜5)
	Name           string // 表情名
	GraphicsOffset uint32 // 圧縮グラフィックのオフセット
	MetadataOffset uint32 // メタデータのオフセット
	Tiles          []byte // 展開済みタイルデータ
	Metadata       []byte // メタデータ (長さプレフィックス込み)。無い場合は nil
}

// TilesFileName はタイルデータの出力ファイル名を返します (例: 00_neutral_tiles.bin)
func (e Expression) TilesFileName() string {
	return fmt.Sprintf("%02d_%s_tiles.bin", e.Slot, e.Name)
}

// MetadataFileName はメタデータの出力ファイル名を返します (例: 00_neutral_oam.bin)
func (e Expression) MetadataFileName() string {
	return fmt.Sprintf("%02d_%s_oam.bin", e.Slot, e.Name)
}

// HasMetadata はメタデータがあるか返します
func (e Expression) HasMetadata() bool {
	return len(e.Metadata) > 0
}

// CharacterRecord は出力対象となった1キャラクター分のデータ
type CharacterRecord struct {
	ID          int
	Offset      uint32
	Palette1    []byte
	Palette2    []byte
	Expressions []Expression

	// FallbackSkips はこのキャラクターでテンプレート流用として除外した表情数
	FallbackSkips int
}

// Stats は抽出全体の集計
type Stats struct {
	Characters      int // 出力したキャラクター数
	Expressions     int // 出力した表情の総数
	FallbackSkips   int // テンプレート流用として除外した表情数
	OutOfBounds     int // 範囲外のキャラクター/スロット数
	NotCompressed   int // 圧縮ストリームではなかったスロット数
	Truncated       int // 展開途中で入力が尽きたスロット数
	EmptyStreams    int // 展開結果が空だったスロット数
	MetadataDropped int // メタデータを破棄した表情数
}

// Add は other の値を加算します
func (s *Stats) Add(other Stats) {
	s.Characters += other.Characters
	s.Expressions += other.Expressions
	s.FallbackSkips += other.FallbackSkips
	s.OutOfBounds += other.OutOfBounds
	s.NotCompressed += other.NotCompressed
	s.Truncated += other.Truncated
	s.EmptyStreams += other.EmptyStreams
	s.MetadataDropped += other.MetadataDropped
}

// DecompressFailures は展開に失敗したスロット数の合計を返します
func (s Stats) DecompressFailures() int {
	return s.NotCompressed + s.Truncated + s.EmptyStreams
}

// Report は Extract の結果
type Report struct {
	Header     Header
	Signature  Signature
	Characters []CharacterRecord
	Stats      Stats
}
