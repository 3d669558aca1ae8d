package doc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// piece is one entry of the piece table: a run of character positions and
// where their text is stored in the WordDocument stream.
type piece struct {
	cpStart    uint32
	cpEnd      uint32
	fc         uint32
	compressed bool
}

const (
	clxPrc  = 0x01
	clxPcdt = 0x02
	pcdSize = 8
)

// readPieces parses the Clx structure of the table stream.
func readPieces(table []byte, clx FcLcb) ([]piece, error) {
	end := uint64(clx.Fc) + uint64(clx.Lcb)
	if clx.Lcb == 0 || end > uint64(len(table)) {
		return nil, fmt.Errorf("clx out of range (fc=%d, lcb=%d, table=%d)", clx.Fc, clx.Lcb, len(table))
	}
	b := table[clx.Fc:end]

	for len(b) > 0 {
		switch b[0] {
		case clxPrc:
			if len(b) < 3 {
				return nil, errors.New("truncated Prc")
			}
			size := int(int16(binary.LittleEndian.Uint16(b[1:3])))
			if size < 0 || 3+size > len(b) {
				return nil, fmt.Errorf("invalid Prc size %d", size)
			}
			b = b[3+size:]
		case clxPcdt:
			if len(b) < 5 {
				return nil, errors.New("truncated Pcdt")
			}
			lcb := int(binary.LittleEndian.Uint32(b[1:5]))
			if lcb < 4 || 5+lcb > len(b) {
				return nil, fmt.Errorf("invalid Pcdt size %d", lcb)
			}
			return parsePlcPcd(b[5 : 5+lcb])
		default:
			return nil, fmt.Errorf("unexpected clx entry type 0x%02X", b[0])
		}
	}
	return nil, errors.New("clx has no piece table")
}

func parsePlcPcd(b []byte) ([]piece, error) {
	n := (len(b) - 4) / (4 + pcdSize)
	if n <= 0 {
		return nil, errors.New("empty piece table")
	}

	pieces := make([]piece, 0, n)
	pcds := b[4*(n+1):]
	for i := range n {
		cpStart := binary.LittleEndian.Uint32(b[4*i:])
		cpEnd := binary.LittleEndian.Uint32(b[4*(i+1):])
		if cpEnd < cpStart {
			return nil, fmt.Errorf("piece %d has negative length", i)
		}
		fc := binary.LittleEndian.Uint32(pcds[i*pcdSize+2:])
		p := piece{cpStart: cpStart, cpEnd: cpEnd}
		if fc&0x40000000 != 0 {
			p.compressed = true
			p.fc = (fc & 0x3FFFFFFF) / 2
		} else {
			p.fc = fc
		}
		pieces = append(pieces, p)
	}
	return pieces, nil
}

// text holds decoded document text with the stream offset every character
// was read from, so paragraph marks can be matched to their properties.
type text struct {
	runes []rune
	fcs   []uint32
}

// decodeText reads the first ccp characters of the document through the
// piece table. Compressed pieces hold one Windows-1252 byte per character,
// the others UTF-16LE code units.
func decodeText(word []byte, pieces []piece, ccp uint32) (text, error) {
	var t text
	for i, p := range pieces {
		if p.cpStart >= ccp {
			break
		}
		count := min(p.cpEnd, ccp) - p.cpStart

		if p.compressed {
			end := uint64(p.fc) + uint64(count)
			if end > uint64(len(word)) {
				return t, fmt.Errorf("piece %d out of range", i)
			}
			for j, c := range word[p.fc:end] {
				t.runes = append(t.runes, charmap.Windows1252.DecodeByte(c))
				t.fcs = append(t.fcs, p.fc+uint32(j))
			}
			continue
		}

		end := uint64(p.fc) + 2*uint64(count)
		if end > uint64(len(word)) {
			return t, fmt.Errorf("piece %d out of range", i)
		}
		units := make([]uint16, count)
		for j := range units {
			units[j] = binary.LittleEndian.Uint16(word[p.fc+2*uint32(j):])
		}
		// a surrogate pair keeps its second position as a NUL, which the
		// paragraph scanner drops, so indexes stay equal to CPs
		for j := 0; j < len(units); j++ {
			r := rune(units[j])
			if utf16.IsSurrogate(r) && j+1 < len(units) {
				if pair := utf16.DecodeRune(r, rune(units[j+1])); pair != unicode.ReplacementChar {
					t.runes = append(t.runes, pair, 0)
					t.fcs = append(t.fcs, p.fc+2*uint32(j), p.fc+2*uint32(j+1))
					j++
					continue
				}
			}
			t.runes = append(t.runes, r)
			t.fcs = append(t.fcs, p.fc+2*uint32(j))
		}
	}
	return t, nil
}
