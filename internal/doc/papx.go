package doc

import (
	"encoding/binary"
	"fmt"
	"sort"
)

const fkpPageSize = 512

// Paragraph sprms the reader interprets.
const (
	sprmPIstd            = 0x4600
	sprmPFInTable        = 0x2416
	sprmPFTtp            = 0x2417
	sprmPItap            = 0x6649
	sprmPFInnerTableCell = 0x244B
	sprmPFInnerTtp       = 0x244C
	sprmTDefTable        = 0xD608
	sprmPChgTabs         = 0xC615
)

// paraProps are the paragraph properties that place a paragraph in the
// document's structure.
type paraProps struct {
	istd      uint16
	inTable   bool
	ttp       bool
	itap      int
	innerCell bool
	innerTtp  bool
}

// depth returns the table nesting depth of the paragraph, 0 outside tables.
func (p paraProps) depth() int {
	if p.itap > 0 {
		return p.itap
	}
	if p.inTable {
		return 1
	}
	return 0
}

// rowEnd reports whether the paragraph is the end-of-row mark of a table
// at its own depth.
func (p paraProps) rowEnd() bool {
	if p.depth() > 1 {
		return p.innerTtp
	}
	return p.ttp
}

// papxRun assigns properties to the paragraphs whose mark lies in
// [fcStart, fcEnd) of the WordDocument stream.
type papxRun struct {
	fcStart uint32
	fcEnd   uint32
	props   paraProps
}

// readPapxRuns reads the PlcBtePapx and every PAPX FKP page it points to.
func readPapxRuns(word, table []byte, plc FcLcb) ([]papxRun, error) {
	end := uint64(plc.Fc) + uint64(plc.Lcb)
	if plc.Lcb < 4 || end > uint64(len(table)) {
		return nil, fmt.Errorf("PlcBtePapx out of range (fc=%d, lcb=%d)", plc.Fc, plc.Lcb)
	}
	b := table[plc.Fc:end]
	n := (len(b) - 4) / 8

	var runs []papxRun
	for i := range n {
		pn := binary.LittleEndian.Uint32(b[4*(n+1)+4*i:]) & 0x3FFFFF
		off := uint64(pn) * fkpPageSize
		if off+fkpPageSize > uint64(len(word)) {
			return nil, fmt.Errorf("PAPX FKP page %d out of range", pn)
		}
		pageRuns, err := parsePapxFkp(word[off : off+fkpPageSize])
		if err != nil {
			return nil, fmt.Errorf("PAPX FKP page %d: %w", pn, err)
		}
		runs = append(runs, pageRuns...)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].fcStart < runs[j].fcStart })
	return runs, nil
}

// parsePapxFkp decodes one formatted disk page of paragraph properties.
func parsePapxFkp(page []byte) ([]papxRun, error) {
	crun := int(page[fkpPageSize-1])
	const bxSize = 13
	if 4*(crun+1)+bxSize*crun > fkpPageSize-1 {
		return nil, fmt.Errorf("invalid crun %d", crun)
	}

	runs := make([]papxRun, 0, crun)
	for i := range crun {
		run := papxRun{
			fcStart: binary.LittleEndian.Uint32(page[4*i:]),
			fcEnd:   binary.LittleEndian.Uint32(page[4*(i+1):]),
		}
		bOffset := int(page[4*(crun+1)+bxSize*i]) * 2
		if bOffset != 0 {
			grpprl, err := papxInFkp(page, bOffset)
			if err != nil {
				return nil, fmt.Errorf("run %d: %w", i, err)
			}
			run.props = parseGrpPrlAndIstd(grpprl)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func papxInFkp(page []byte, off int) ([]byte, error) {
	if off >= fkpPageSize-1 {
		return nil, fmt.Errorf("PapxInFkp offset %d out of range", off)
	}
	start, size := off+1, 2*int(page[off])-1
	if page[off] == 0 {
		start, size = off+2, 2*int(page[off+1])
	}
	if size < 2 || start+size > fkpPageSize-1 {
		return nil, fmt.Errorf("invalid PapxInFkp size %d", size)
	}
	return page[start : start+size], nil
}

// parseGrpPrlAndIstd reads the style index and walks the property
// modifiers that follow it. A truncated modifier ends the walk.
func parseGrpPrlAndIstd(b []byte) paraProps {
	var props paraProps
	props.istd = binary.LittleEndian.Uint16(b)

	for i := 2; i+2 <= len(b); {
		sprm := binary.LittleEndian.Uint16(b[i:])
		i += 2
		size := operandSize(sprm, b[i:])
		if size < 0 || i+size > len(b) {
			break
		}
		op := b[i : i+size]
		i += size

		switch sprm {
		case sprmPIstd:
			props.istd = binary.LittleEndian.Uint16(op)
		case sprmPFInTable:
			props.inTable = op[0] != 0
		case sprmPFTtp:
			props.ttp = op[0] != 0
		case sprmPItap:
			props.itap = int(int32(binary.LittleEndian.Uint32(op)))
		case sprmPFInnerTableCell:
			props.innerCell = op[0] != 0
		case sprmPFInnerTtp:
			props.innerTtp = op[0] != 0
		}
	}
	return props
}

// operandSize returns the operand length of sprm given the bytes that
// follow it, or -1 when it cannot be determined.
func operandSize(sprm uint16, rest []byte) int {
	switch sprm >> 13 {
	case 0, 1:
		return 1
	case 2, 4, 5:
		return 2
	case 3:
		return 4
	case 7:
		return 3
	}

	switch sprm {
	case sprmTDefTable:
		if len(rest) < 2 {
			return -1
		}
		return int(binary.LittleEndian.Uint16(rest)) + 1
	case sprmPChgTabs:
		if len(rest) < 1 {
			return -1
		}
		if rest[0] != 255 {
			return 1 + int(rest[0])
		}
		// cb 255 means the length follows from the tab counts
		if len(rest) < 2 {
			return -1
		}
		del := int(rest[1])
		addAt := 2 + 4*del
		if len(rest) <= addAt {
			return -1
		}
		return addAt + 1 + 3*int(rest[addAt])
	}
	if len(rest) < 1 {
		return -1
	}
	return 1 + int(rest[0])
}

// lookup returns the properties of the paragraph whose mark was read from
// fc. Paragraphs outside every run get default properties.
func lookup(runs []papxRun, fc uint32) paraProps {
	i := sort.Search(len(runs), func(i int) bool { return runs[i].fcEnd > fc })
	if i < len(runs) && runs[i].fcStart <= fc {
		return runs[i].props
	}
	return paraProps{}
}
