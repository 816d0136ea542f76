package facebin

import (
	"encoding/binary"
	"fmt"
)

// Header はポインタテーブルから読み取ったアーカイブ全体の情報
type Header struct {
	FirstPointer uint32 // 先頭ポインタの値
	TableSpan    uint32 // ポインタテーブルのバイト数
	EntryCount   int    // キャラクター数
}

// ReadHeader はポインタテーブルの先頭エントリからキャラクター数を求めます。
// 最初のキャラクターはポインタテーブルの直後に置かれるため、
// 先頭ポインタの値がそのままテーブルのバイト数になります。
func ReadHeader(data []byte) (Header, error) {
	if len(data) < 4 {
		return Header{}, fmt.Errorf("%w: ファイルサイズが %d バイトしかありません", ErrImplausibleLayout, len(data))
	}

	first := binary.LittleEndian.Uint32(data)
	count := int(first / 4)
	if count < MinEntryCount || count > MaxEntryCount {
		return Header{}, fmt.Errorf("%w: キャラクター数 %d (先頭ポインタ 0x%08X)", ErrImplausibleLayout, count, first)
	}

	return Header{
		FirstPointer: first,
		TableSpan:    first,
		EntryCount:   count,
	}, nil
}

// Index はアーカイブのバイト列とヘッダを保持し、オフセット計算を行います
type Index struct {
	data   []byte
	header Header
}

// NewIndex はヘッダを検証して新しいIndexを作成します
func NewIndex(data []byte) (*Index, error) {
	header, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	return &Index{data: data, header: header}, nil
}

// Header はヘッダ情報を返します
func (x *Index) Header() Header {
	return x.header
}

// Len はアーカイブのバイト数を返します
func (x *Index) Len() int {
	return len(x.data)
}

// Bytes はアーカイブのバイト列を返します (呼び出し側で変更しないこと)
func (x *Index) Bytes() []byte {
	return x.data
}

// CharacterOffset はキャラクターレコードの開始オフセットを返します
func (x *Index) CharacterOffset(id int) (uint32, error) {
	if id < 0 || id >= x.header.EntryCount {
		return 0, fmt.Errorf("%w: キャラクター %d (キャラクター数 %d)", ErrRecordOutOfBounds, id, x.header.EntryCount)
	}

	off, err := x.u32(int64(id) * 4)
	if err != nil {
		return 0, fmt.Errorf("キャラクター %d のポインタ: %w", id, err)
	}
	if int64(off) >= int64(len(x.data)) {
		return 0, fmt.Errorf("%w: キャラクター %d のオフセット 0x%08X", ErrRecordOutOfBounds, id, off)
	}
	return off, nil
}

// PaletteBlocks はキャラクターの2つのパレットを返します
func (x *Index) PaletteBlocks(charOffset uint32) ([]byte, []byte, error) {
	start := int64(charOffset)
	if start+SubTableOffset > int64(len(x.data)) {
		return nil, nil, fmt.Errorf("%w: パレット 0x%08X", ErrRecordOutOfBounds, charOffset)
	}
	p1 := x.data[start : start+PaletteSize]
	p2 := x.data[start+PaletteSize : start+SubTableOffset]
	return p1, p2, nil
}

// SubTablePointer はサブテーブルの entry 番目のポインタを返します
func (x *Index) SubTablePointer(charOffset uint32, entry int) (uint32, error) {
	if entry < 0 || entry >= SubTableEntries {
		return 0, fmt.Errorf("%w: サブテーブルエントリ %d", ErrRecordOutOfBounds, entry)
	}
	pos := int64(charOffset) + SubTableOffset + int64(entry)*4
	v, err := x.u32(pos)
	if err != nil {
		return 0, fmt.Errorf("サブテーブルエントリ %d: %w", entry, err)
	}
	return v, nil
}

// Metadata は offset にあるメタデータブロブを長さプレフィックス込みで返します
func (x *Index) Metadata(offset uint32) ([]byte, error) {
	size, err := x.u32(int64(offset))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataMalformed, err)
	}
	if size == 0 || size >= MaxMetadataSize {
		return nil, fmt.Errorf("%w: 宣言長 %d (offset=0x%08X)", ErrMetadataMalformed, size, offset)
	}
	end := int64(offset) + int64(size)
	if end > int64(len(x.data)) {
		return nil, fmt.Errorf("%w: 宣言長 %d がアーカイブ末尾を超えています (offset=0x%08X)", ErrMetadataMalformed, size, offset)
	}
	return x.data[offset:end], nil
}

// u32 は pos から uint32 LE を読み取ります
func (x *Index) u32(pos int64) (uint32, error) {
	if pos < 0 || pos+4 > int64(len(x.data)) {
		return 0, fmt.Errorf("%w: 0x%08X", ErrRecordOutOfBounds, pos)
	}
	return binary.LittleEndian.Uint32(x.data[pos:]), nil
}
