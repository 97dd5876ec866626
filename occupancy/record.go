package occupancy

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// A record is laid out little-endian as
//
//	alpha float32 | beta float32 | state uint8 | color 3 x float64 | classes uint32 | semantics classes x float64
//
// This extends the plain alpha, beta, state, color, semantics field list with a class count between
// color and semantics, so that a record written under a different configuration is rejected rather
// than misread. Readers that expect the plain field list cannot read these records.
const recordHeaderSize = 4 + 4 + 1 + colorChannels*8 + 4

// RecordSize returns the size in bytes of a node record with numClasses semantic classes, including
// the 4 byte class count.
func RecordSize(numClasses int) int {
	return recordHeaderSize + numClasses*8
}

// MarshalBinary encodes the node as a fixed-size record.
func (n *Node) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(RecordSize(n.semantics.Len()))
	if _, err := n.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the node's record to w.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	out := make([]byte, RecordSize(n.semantics.Len()))
	le := binary.LittleEndian
	le.PutUint32(out[0:], math.Float32bits(n.alpha))
	le.PutUint32(out[4:], math.Float32bits(n.beta))
	out[8] = byte(n.state)
	off := 9
	for _, v := range n.color.values {
		le.PutUint64(out[off:], math.Float64bits(v))
		off += 8
	}
	le.PutUint32(out[off:], uint32(n.semantics.Len()))
	off += 4
	for _, v := range n.semantics.values {
		le.PutUint64(out[off:], math.Float64bits(v))
		off += 8
	}
	written, err := w.Write(out)
	return int64(written), err
}

// UnmarshalNode decodes a record produced by MarshalBinary into a node of this model.
func (m *Model) UnmarshalNode(data []byte) (*Node, error) {
	if len(data) < recordHeaderSize {
		return nil, errors.Errorf("error unmarshaling node invalid record size (%d)", len(data))
	}
	if classes := storedClassCount(data); classes != m.params.NumClasses {
		return nil, errors.Wrapf(ErrClassCountMismatch, "record has %d classes, model has %d",
			classes, m.params.NumClasses)
	}
	if want := RecordSize(m.params.NumClasses); len(data) != want {
		return nil, errors.Errorf("error unmarshaling node invalid record size (%d), want %d", len(data), want)
	}
	return m.decode(data)
}

// ReadNode reads one record from r into a node of this model.
func (m *Model) ReadNode(r io.Reader) (*Node, error) {
	header := make([]byte, recordHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(err, "error reading node record")
	}
	if classes := storedClassCount(header); classes != m.params.NumClasses {
		return nil, errors.Wrapf(ErrClassCountMismatch, "record has %d classes, model has %d",
			classes, m.params.NumClasses)
	}
	data := make([]byte, RecordSize(m.params.NumClasses))
	copy(data, header)
	if _, err := io.ReadFull(r, data[recordHeaderSize:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrap(err, "error reading node semantics")
	}
	return m.decode(data)
}

func storedClassCount(data []byte) int {
	return int(binary.LittleEndian.Uint32(data[recordHeaderSize-4:]))
}

func (m *Model) decode(data []byte) (*Node, error) {
	le := binary.LittleEndian
	n := m.NewNode()
	n.alpha = math.Float32frombits(le.Uint32(data[0:]))
	n.beta = math.Float32frombits(le.Uint32(data[4:]))
	if !validCount(n.alpha) || !validCount(n.beta) {
		return nil, errors.Errorf("error unmarshaling node invalid counts (%v, %v)", n.alpha, n.beta)
	}
	n.state = State(data[8])
	if !n.state.Valid() {
		return nil, errors.Errorf("error unmarshaling node invalid state (%d)", data[8])
	}
	off := 9
	for i := range n.color.values {
		n.color.values[i] = math.Float64frombits(le.Uint64(data[off:]))
		off += 8
	}
	off += 4
	for i := range n.semantics.values {
		n.semantics.values[i] = math.Float64frombits(le.Uint64(data[off:]))
		off += 8
	}
	fresh := m.NewNode()
	n.classified = !n.color.Equal(fresh.color) || !n.semantics.Equal(fresh.semantics)
	return n, nil
}
