package doc

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
)

// readStyleNames reads the primary name of every style in the STSH, keyed
// by style index. Alternate names after a comma are dropped.
func readStyleNames(table []byte, stshf FcLcb) (map[uint16]string, error) {
	end := uint64(stshf.Fc) + uint64(stshf.Lcb)
	if stshf.Lcb < 2 || end > uint64(len(table)) {
		return nil, fmt.Errorf("STSH out of range (fc=%d, lcb=%d)", stshf.Fc, stshf.Lcb)
	}
	b := table[stshf.Fc:end]

	cbStshi := int(binary.LittleEndian.Uint16(b))
	if cbStshi < 4 || 2+cbStshi > len(b) {
		return nil, fmt.Errorf("invalid cbStshi %d", cbStshi)
	}
	cstd := int(binary.LittleEndian.Uint16(b[2:]))
	cbBase := int(binary.LittleEndian.Uint16(b[4:]))

	names := make(map[uint16]string, cstd)
	pos := 2 + cbStshi
	for istd := range cstd {
		if pos+2 > len(b) {
			break
		}
		cbStd := int(binary.LittleEndian.Uint16(b[pos:]))
		pos += 2
		if cbStd == 0 {
			continue
		}
		if pos+cbStd > len(b) {
			return names, fmt.Errorf("style %d overruns STSH", istd)
		}
		std := b[pos : pos+cbStd]
		pos += cbStd

		if cbBase+2 > len(std) {
			continue
		}
		cch := int(binary.LittleEndian.Uint16(std[cbBase:]))
		raw := std[cbBase+2:]
		if 2*cch > len(raw) {
			continue
		}
		units := make([]uint16, cch)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(raw[2*i:])
		}
		name, _, _ := strings.Cut(string(utf16.Decode(units)), ",")
		if name = strings.TrimSpace(name); name != "" {
			names[uint16(istd)] = name
		}
	}
	return names, nil
}

// styleName returns the name of istd. The Normal style has no name, and
// without a readable style sheet the built-in heading indexes 1 to 9 are
// named after their level.
func styleName(names map[uint16]string, istd uint16) string {
	if istd == 0 {
		return ""
	}
	if name, ok := names[istd]; ok {
		return name
	}
	if names == nil && istd >= 1 && istd <= 9 {
		return fmt.Sprintf("heading %d", istd)
	}
	return ""
}
