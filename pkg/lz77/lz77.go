// Package lz77 はニンテンドーDS/GBA系のLZ77 (タイプ0x10) 圧縮ストリームを展開します。
//
// ストリームの形式:
//
//	+0  uint32 LE  下位8ビット = 0x10 (タグ)、上位24ビット = 展開後サイズ
//	+4  フラグバイト + トークン列
//
// フラグバイトは上位ビットから順に8トークン分の種類を表します。
// 0 はリテラル1バイト、1 は2バイト(ビッグエンディアン)の後方参照です。
package lz77

import (
	"encoding/binary"
)

const (
	// Tag は圧縮ストリーム先頭のタグバイト
	Tag = 0x10

	// HeaderSize はタグとサイズを格納するヘッダのバイト数
	HeaderSize = 4

	// MinMatch は後方参照の最小長
	MinMatch = 3

	// MaxDisplacement は後方参照の最大距離 (0xFFF + 1)
	MaxDisplacement = 0x1000
)

// DeclaredSize は offset にあるストリームのヘッダから展開後サイズを読み取ります。
func DeclaredSize(data []byte, offset int) (int, error) {
	if offset < 0 || offset >= len(data) || data[offset] != Tag {
		return 0, newError(ErrNotCompressed, offset, offset)
	}
	if offset+HeaderSize > len(data) {
		return 0, newError(ErrTruncated, offset, offset)
	}
	return int(binary.LittleEndian.Uint32(data[offset:]) >> 8), nil
}

// Decompress は data の offset から始まる圧縮ストリームを展開します。
// 返されるスライスの長さは常にヘッダで宣言されたサイズと一致します。
// 入力が途中で尽きた場合は ErrTruncated を返し、途中までの結果は返しません。
func Decompress(data []byte, offset int) ([]byte, error) {
	size, err := DeclaredSize(data, offset)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, size)
	src := offset + HeaderSize

	for len(out) < size && src < len(data) {
		flags := data[src]
		src++

		for i := 0; i < 8; i++ {
			if len(out) >= size || src >= len(data) {
				break
			}

			if flags&0x80 != 0 {
				// 後方参照: 長さ4ビット + 距離12ビット
				if src+1 >= len(data) {
					return nil, newError(ErrTruncated, offset, src)
				}
				info := binary.BigEndian.Uint16(data[src:])
				src += 2

				length := int(info>>12)&0xF + MinMatch
				disp := int(info&0xFFF) + 1
				for j := 0; j < length; j++ {
					// 書き込み位置より手前を指す場合は0で埋める
					if len(out) < disp {
						out = append(out, 0)
					} else {
						out = append(out, out[len(out)-disp])
					}
				}
			} else {
				out = append(out, data[src])
				src++
			}

			flags <<= 1
		}
	}

	if len(out) < size {
		return nil, newError(ErrTruncated, offset, src)
	}

	return out[:size], nil
}
