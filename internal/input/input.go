// Package input decodes raw terminal bytes into arena controls.
//
// Terminals report key presses but never releases, so a movement key counts
// as held for a short window after each press; auto-repeat keeps it alive.
package input

import (
	"bufio"
	"bytes"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 150 * time.Millisecond

// Click is a left mouse button press at a 1-based terminal position.
type Click struct {
	Col, Row int
}

// Input represents the current frame's input state.
type Input struct {
	// Held movement keys
	Up    bool
	Down  bool
	Left  bool
	Right bool

	// Pressed since the previous frame
	Ability bool // f
	Pause   bool // p
	Quit    bool // q or Ctrl-C
	Confirm bool // Space or Enter
	Number  int  // Last digit pressed, -1 if none
	Clicks  []Click

	Pressed []byte
}

type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
	numDirs
)

// Decoder turns byte chunks into Input. It keeps the last press time of each
// movement key and any escape sequence split across chunks.
type Decoder struct {
	held    [numDirs]time.Time
	pending []byte
}

// Decode parses buf and returns the input state at now.
func (d *Decoder) Decode(buf []byte, now time.Time) Input {
	in := Input{Number: -1, Pressed: buf}

	data := buf
	if len(d.pending) > 0 {
		data = append(d.pending, buf...)
		d.pending = nil
	}

	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == '\x1b' {
			n, complete := d.escape(data[i:], now, &in)
			if !complete {
				d.pending = append([]byte(nil), data[i:]...)
				break
			}
			i += n - 1
			continue
		}
		d.applyByte(b, now, &in)
	}

	in.Up = now.Sub(d.held[dirUp]) < keyHoldDuration
	in.Down = now.Sub(d.held[dirDown]) < keyHoldDuration
	in.Left = now.Sub(d.held[dirLeft]) < keyHoldDuration
	in.Right = now.Sub(d.held[dirRight]) < keyHoldDuration
	return in
}

// Release forgets every held key, e.g. when a new game starts.
func (d *Decoder) Release() {
	d.held = [numDirs]time.Time{}
}

// escape consumes an escape sequence at the start of seq and returns its
// length. complete is false when seq ends before the sequence does.
func (d *Decoder) escape(seq []byte, now time.Time, in *Input) (n int, complete bool) {
	if len(seq) < 2 {
		return 0, false
	}
	if seq[1] != '[' {
		return 1, true // Lone ESC
	}
	if len(seq) < 3 {
		return 0, false
	}

	switch seq[2] {
	case 'A':
		d.held[dirUp] = now
		return 3, true
	case 'B':
		d.held[dirDown] = now
		return 3, true
	case 'C':
		d.held[dirRight] = now
		return 3, true
	case 'D':
		d.held[dirLeft] = now
		return 3, true
	case '<':
		return parseSGRMouse(seq, in)
	}

	// Unknown CSI: skip to its final byte.
	for j := 2; j < len(seq); j++ {
		if seq[j] >= 0x40 && seq[j] <= 0x7e {
			return j + 1, true
		}
	}
	return 0, false
}

// parseSGRMouse reads ESC [ < button ; col ; row (M|m). Only left button
// presses are reported.
func parseSGRMouse(seq []byte, in *Input) (int, bool) {
	end := 3
	for end < len(seq) && (seq[end] == ';' || (seq[end] >= '0' && seq[end] <= '9')) {
		end++
	}
	if end == len(seq) {
		return 0, false
	}
	if seq[end] != 'M' && seq[end] != 'm' {
		return end, true // Malformed, resume at the stray byte
	}

	fields := bytes.Split(seq[3:end], []byte{';'})
	if len(fields) != 3 {
		return end + 1, true
	}
	button, err1 := strconv.Atoi(string(fields[0]))
	col, err2 := strconv.Atoi(string(fields[1]))
	row, err3 := strconv.Atoi(string(fields[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return end + 1, true
	}

	// Low two bits select the button; 32 flags motion, 64 the wheel.
	if seq[end] == 'M' && button&0b11 == 0 && button&(32|64) == 0 {
		in.Clicks = append(in.Clicks, Click{Col: col, Row: row})
	}
	return end + 1, true
}

func (d *Decoder) applyByte(b byte, now time.Time, in *Input) {
	switch b {
	case 'w', 'W':
		d.held[dirUp] = now
	case 's', 'S':
		d.held[dirDown] = now
	case 'a', 'A':
		d.held[dirLeft] = now
	case 'd', 'D':
		d.held[dirRight] = now
	case 'f', 'F':
		in.Ability = true
	case 'p', 'P':
		in.Pause = true
	case 'q', 'Q', 0x03:
		in.Quit = true
	case ' ', '\r', '\n':
		in.Confirm = true
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Number = int(b - '0')
	}
}

// Stream delivers input bytes via a channel and decodes them once per frame.
type Stream struct {
	ch  chan byte
	dec Decoder
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.dec.Decode(buf, time.Now())
	if closed {
		in.Quit = true
	}
	return in
}

// ResetKeyInput forgets held keys.
func ResetKeyInput(s *Stream) {
	s.dec.Release()
}
