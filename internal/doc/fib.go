package doc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const wIdent = 0xA5EC

// FibFlags exposes the flags word of the FIB base.
type FibFlags struct {
	Raw uint16
}

func (f FibFlags) Encrypted() bool { return f.Raw&0x0100 != 0 }

// TableStream names the table stream the document's structures live in.
func (f FibFlags) TableStream() string {
	if f.Raw&0x0200 != 0 {
		return "1Table"
	}
	return "0Table"
}

// FcLcb locates a structure in the table stream.
type FcLcb struct {
	Fc  uint32
	Lcb uint32
}

// Fib holds the parts of the File Information Block at the start of the
// WordDocument stream that the reader needs.
type Fib struct {
	Ident   uint16
	NFib    uint16
	Flags   FibFlags
	CcpText uint32

	Stshf       FcLcb
	PlcfBtePapx FcLcb
	Clx         FcLcb
}

// Indexes into fibRgFcLcb.
const (
	fcLcbStshf       = 1
	fcLcbPlcfBtePapx = 13
	fcLcbClx         = 33
)

func readFib(b []byte) (Fib, error) {
	var fib Fib
	r := bytes.NewReader(b)

	if err := binary.Read(r, binary.LittleEndian, &fib.Ident); err != nil {
		return fib, fmt.Errorf("read wIdent: %w", err)
	}
	if fib.Ident != wIdent {
		return fib, fmt.Errorf("unexpected wIdent 0x%04X", fib.Ident)
	}
	if err := binary.Read(r, binary.LittleEndian, &fib.NFib); err != nil {
		return fib, fmt.Errorf("read nFib: %w", err)
	}

	// flags sit after wIdent, nFib, unused, lid and pnNext
	if _, err := r.Seek(0x0A, io.SeekStart); err != nil {
		return fib, err
	}
	if err := binary.Read(r, binary.LittleEndian, &fib.Flags.Raw); err != nil {
		return fib, fmt.Errorf("read flags: %w", err)
	}

	// FibBase is 32 bytes, followed by csw and fibRgW
	var csw uint16
	if _, err := r.Seek(0x20, io.SeekStart); err != nil {
		return fib, err
	}
	if err := binary.Read(r, binary.LittleEndian, &csw); err != nil {
		return fib, fmt.Errorf("read csw: %w", err)
	}
	if _, err := r.Seek(int64(csw)*2, io.SeekCurrent); err != nil {
		return fib, err
	}

	var cslw uint16
	if err := binary.Read(r, binary.LittleEndian, &cslw); err != nil {
		return fib, fmt.Errorf("read cslw: %w", err)
	}
	rgLw := make([]uint32, cslw)
	if err := binary.Read(r, binary.LittleEndian, rgLw); err != nil {
		return fib, fmt.Errorf("read fibRgLw: %w", err)
	}
	if len(rgLw) < 4 {
		return fib, fmt.Errorf("fibRgLw too short (%d)", len(rgLw))
	}
	fib.CcpText = rgLw[3]

	var cbRgFcLcb uint16
	if err := binary.Read(r, binary.LittleEndian, &cbRgFcLcb); err != nil {
		return fib, fmt.Errorf("read cbRgFcLcb: %w", err)
	}
	if cbRgFcLcb <= fcLcbClx {
		return fib, fmt.Errorf("fibRgFcLcb too short (%d)", cbRgFcLcb)
	}
	rgFcLcb := make([]FcLcb, cbRgFcLcb)
	if err := binary.Read(r, binary.LittleEndian, rgFcLcb); err != nil {
		return fib, fmt.Errorf("read fibRgFcLcb: %w", err)
	}
	fib.Stshf = rgFcLcb[fcLcbStshf]
	fib.PlcfBtePapx = rgFcLcb[fcLcbPlcfBtePapx]
	fib.Clx = rgFcLcb[fcLcbClx]

	return fib, nil
}
