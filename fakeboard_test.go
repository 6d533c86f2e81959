package flashwriter

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

type boardState int

const (
	stateLoader boardState = iota
	stateCommand
	stateArea
	stateSector
	stateSize
	stateBinary
	stateCSDIndex
	stateCSDValue
)

var errUnplugged = errors.New("device disconnected")

// fakeBoard scripts the bootloader side of the protocol. It implements
// Transport and records everything the host does to it.
type fakeBoard struct {
	mu sync.Mutex

	loaderSize int
	silent     bool

	// disconnectOn drops the device once this command line is received
	disconnectOn string
	// disconnectAfterBinary drops the device after this many image bytes
	disconnectAfterBinary int

	state     boardState
	pending   bytes.Buffer
	line      bytes.Buffer
	remaining int
	current   bytes.Buffer

	closed       bool
	disconnected bool

	bauds    []int
	commands []string
	loader   bytes.Buffer
	binaries [][]byte
	sectors  []string
	sizes    []string
	writes   []int
	drains   int
	flushes  int
}

func newFakeBoard(loaderSize int) *fakeBoard {
	return &fakeBoard{loaderSize: loaderSize, closed: true}
}

// opener hands out the board itself on every open, as a reopened device would
func (b *fakeBoard) opener() Opener {
	return func(device string, baud int, readTimeout time.Duration) (Transport, error) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.disconnected {
			return nil, errUnplugged
		}
		b.closed = false
		b.bauds = append(b.bauds, baud)
		if len(b.bauds) == 1 && !b.silent {
			b.pending.WriteString("\r\nSCIF Download mode\r\n(C) Renesas Electronics Corp.\r\n-- Load Program to System RAM ---------------\r\nplease send !\r\n")
		}
		return b, nil
	}
}

func (b *fakeBoard) Read(buf []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disconnected {
		return 0, errUnplugged
	}
	if b.closed {
		return 0, errors.New("read on closed port")
	}
	if b.pending.Len() == 0 {
		return 0, nil
	}
	return b.pending.Read(buf)
}

func (b *fakeBoard) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disconnected {
		return 0, errUnplugged
	}
	if b.closed {
		return 0, errors.New("write on closed port")
	}
	b.writes = append(b.writes, len(data))

	for _, c := range data {
		b.consume(c)
		if b.disconnected {
			return 0, errUnplugged
		}
	}
	return len(data), nil
}

func (b *fakeBoard) consume(c byte) {
	switch b.state {
	case stateLoader:
		b.loader.WriteByte(c)
		if b.loader.Len() == b.loaderSize {
			b.pending.WriteString("\r\nFlash writer for R-Car Gen3 V1.00\r\n")
			b.state = stateCommand
		}
		return
	case stateBinary:
		b.current.WriteByte(c)
		b.remaining--
		if b.disconnectAfterBinary > 0 && b.current.Len() == b.disconnectAfterBinary {
			b.disconnected = true
			return
		}
		if b.remaining == 0 {
			b.binaries = append(b.binaries, bytes.Clone(b.current.Bytes()))
			b.current.Reset()
			b.pending.WriteString("\r\nEM_WB Complete!\r\n>")
			b.state = stateCommand
		}
		return
	}

	if c != '\r' {
		b.line.WriteByte(c)
		return
	}

	cmd := b.line.String()
	b.line.Reset()
	b.commands = append(b.commands, cmd)
	if cmd != "" && cmd == b.disconnectOn {
		b.disconnected = true
		return
	}
	b.handle(cmd)
}

func (b *fakeBoard) handle(cmd string) {
	switch b.state {
	case stateCommand:
		switch cmd {
		case "":
			b.pending.WriteString("\r\n>")
		case "SUP":
			// answered at the new speed only
		case "EM_WB":
			b.pending.WriteString("\r\nEM_WB Start --------------\r\n  ---------------------------------------------------------\r\n   Please select,eMMC Partition Area.\r\n   0:User Partition Area   : 62160896 KBytes\r\n   1:Boot Partition 1      : 32256 KBytes\r\n   2:Boot Partition 2      : 32256 KBytes\r\n  ---------------------------------------------------------\r\n  Select area(0-2)>")
			b.state = stateArea
		case "EM_SECSD":
			b.pending.WriteString("\r\n  Please Input EXT_CSD Index(H'00 - H'1FF) :")
			b.state = stateCSDIndex
		default:
			b.pending.WriteString("\r\nCommand not found\r\n>")
		}
	case stateArea:
		b.pending.WriteString("\r\n-- Boot Partition 1 Program -----------------------------\r\nPlease Input Start Address in sector :")
		b.state = stateSector
	case stateSector:
		b.sectors = append(b.sectors, cmd)
		b.pending.WriteString("\r\nPlease Input File size(byte) : ")
		b.state = stateSize
	case stateSize:
		b.sizes = append(b.sizes, cmd)
		size, err := strconv.ParseInt(cmd, 16, 64)
		if err != nil || size <= 0 {
			b.pending.WriteString("\r\nInput Error\r\n>")
			b.state = stateCommand
			return
		}
		b.remaining = int(size)
		b.pending.WriteString("\r\nplease send binary file!\r\n")
		b.state = stateBinary
	case stateCSDIndex:
		b.pending.WriteString("\r\n  EXT_CSD[B3] = 0x00\r\n  Please Input Value(H'00 - H'FF) :")
		b.state = stateCSDValue
	case stateCSDValue:
		b.pending.WriteString("\r\n  EXT_CSD[B3] = 0x08\r\n>")
		b.state = stateCommand
	}
}

func (b *fakeBoard) Drain() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disconnected {
		return errUnplugged
	}
	b.drains++
	return nil
}

func (b *fakeBoard) FlushInput() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.flushes++
	b.pending.Reset()
	return nil
}

func (b *fakeBoard) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	return nil
}

func (b *fakeBoard) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// scriptedReader returns one chunk per Read, then empty reads
type scriptedReader struct {
	chunks [][]byte
	reads  int
	err    error
}

func (r *scriptedReader) Read(buf []byte) (int, error) {
	r.reads++
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, nil
	}
	n := copy(buf, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

// recordingWriter captures writes and drains for transfer and command tests
type recordingWriter struct {
	buf       bytes.Buffer
	writes    []int
	drains    int
	failWrite error
	failDrain error
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if w.failWrite != nil {
		return 0, w.failWrite
	}
	w.writes = append(w.writes, len(p))
	return w.buf.Write(p)
}

func (w *recordingWriter) Drain() error {
	if w.failDrain != nil {
		return w.failDrain
	}
	w.drains++
	return nil
}

func testContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
