package facebin

import (
	"fmt"
	"sort"
)

// Signature はテンプレート表情として使われるグラフィックオフセットの集合
type Signature map[uint32]struct{}

// Contains はオフセットが集合に含まれるか確認します
func (s Signature) Contains(offset uint32) bool {
	_, ok := s[offset]
	return ok
}

// Offsets は集合のオフセットを昇順で返します
func (s Signature) Offsets() []uint32 {
	offsets := make([]uint32, 0, len(s))
	for off := range s {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

// ReferenceSignature は sourceID のキャラクターの表情1〜5のグラフィックオフセットを集めます。
// 無表情 (スロット0) は全キャラクターが固有の絵を持つため含めません。
// キャラクターが存在しない場合は空の集合とエラーを返します。
func ReferenceSignature(idx *Index, sourceID int) (Signature, error) {
	sig := make(Signature, ExpressionCount-1)

	charOffset, err := idx.CharacterOffset(sourceID)
	if err != nil {
		return sig, fmt.Errorf("参照キャラクター %d: %w", sourceID, err)
	}

	for slot := 1; slot < ExpressionCount; slot++ {
		gfx, err := idx.SubTablePointer(charOffset, GraphicsEntry(slot))
		if err != nil {
			return make(Signature), fmt.Errorf("参照キャラクター %d の表情 %d: %w", sourceID, slot, err)
		}
		sig[gfx] = struct{}{}
	}
	return sig, nil
}

// IsFallback はキャラクターの表情が参照キャラクターの絵を流用しているか判定します。
// 参照キャラクター自身は対象外です。
func IsFallback(charID, referenceID int, graphicsOffset uint32, sig Signature) bool {
	return charID != referenceID && sig.Contains(graphicsOffset)
}
