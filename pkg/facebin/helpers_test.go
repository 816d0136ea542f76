package facebin

import (
	"encoding/binary"
)

// archiveBuilder はテスト用の face.bin を組み立てます
type archiveBuilder struct {
	buf []byte
}

// newArchiveBuilder は n キャラクター分のポインタテーブルを持つビルダーを作成します。
// 先頭ポインタはテーブルサイズで初期化され、残りは範囲外を指します。
func newArchiveBuilder(n int) *archiveBuilder {
	b := &archiveBuilder{buf: make([]byte, n*4)}
	for i := 1; i < n; i++ {
		b.putU32(uint32(i*4), 0xFFFFFFFF)
	}
	b.putU32(0, uint32(n*4))
	return b
}

func (b *archiveBuilder) putU32(pos, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[pos:], v)
}

// appendBytes はデータを末尾に追加し、その開始オフセットを返します
func (b *archiveBuilder) appendBytes(p []byte) uint32 {
	off := uint32(len(b.buf))
	b.buf = append(b.buf, p...)
	return off
}

// addCharacter はパレットと空のサブテーブルを追加してポインタテーブルに登録します。
// キャラクター0はテーブル直後に置く必要があるため最初に追加すること。
func (b *archiveBuilder) addCharacter(id int, palette1, palette2 byte) uint32 {
	rec := make([]byte, SubTableOffset+SubTableEntries*4)
	for i := 0; i < PaletteSize; i++ {
		rec[i] = palette1
		rec[PaletteSize+i] = palette2
	}
	off := b.appendBytes(rec)
	b.putU32(uint32(id*4), off)
	return off
}

// setSlot は表情スロットのグラフィック/メタデータポインタを設定します
func (b *archiveBuilder) setSlot(charOffset uint32, slot int, gfx, meta uint32) {
	b.putU32(charOffset+SubTableOffset+uint32(GraphicsEntry(slot)*4), gfx)
	b.putU32(charOffset+SubTableOffset+uint32(MetadataEntry(slot)*4), meta)
}

// addStream はリテラルのみで構成した圧縮ストリームを追加します
func (b *archiveBuilder) addStream(payload []byte) uint32 {
	return b.appendBytes(encodeLiterals(payload))
}

// addMetadata は宣言長 size のメタデータを追加します (本体は size-4 バイト)
func (b *archiveBuilder) addMetadata(size uint32, fill byte) uint32 {
	blob := make([]byte, 4)
	binary.LittleEndian.PutUint32(blob, size)
	for i := uint32(4); i < size; i++ {
		blob = append(blob, fill)
	}
	return b.appendBytes(blob)
}

func (b *archiveBuilder) bytes() []byte {
	return b.buf
}

// encodeLiterals はリテラルトークンのみのLZ77ストリームを生成します
func encodeLiterals(payload []byte) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(len(payload))<<8|0x10)
	for i := 0; i < len(payload); i += 8 {
		out = append(out, 0x00)
		end := i + 8
		if end > len(payload) {
			end = len(payload)
		}
		out = append(out, payload[i:end]...)
	}
	return out
}
