package wire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"slices"

	"github.com/npillmayer/numcode"
)

// Frame layout:
//
//	"NC" | version | language | data type | uvarint payload length | payload | CRC-32
//
// Language and data type are 1-based indices into numcode.Languages and
// numcode.DataTypes, 0 meaning none / plain text. The CRC-32 (IEEE, big
// endian) covers all preceding bytes of the frame.
const (
	Version = 1

	// MaxPayload is the default limit for frame payloads read from a stream.
	MaxPayload = 16 << 20
)

var magic = [2]byte{'N', 'C'}

var crcTable = crc32.MakeTable(crc32.IEEE)

// Frame is one framed message.
type Frame struct {
	Language numcode.LanguageTag
	DataType numcode.DataType
	Stream   numcode.Stream
}

// AppendFrame appends the framed encoding of f to dst.
func AppendFrame(dst []byte, f Frame) ([]byte, error) {
	payload, err := Encode(f.Stream)
	if err != nil {
		return dst, err
	}
	lang, dt := 0, 0
	if f.Language != "" {
		if lang = slices.Index(numcode.Languages, f.Language) + 1; lang == 0 {
			return dst, fmt.Errorf("wire: %w: %q", numcode.ErrUnsupportedLanguage, f.Language)
		}
	}
	if f.DataType != numcode.PlainText {
		if dt = slices.Index(numcode.DataTypes, f.DataType) + 1; dt == 0 {
			return dst, fmt.Errorf("wire: unknown data type %q", f.DataType)
		}
	}
	start := len(dst)
	dst = append(dst, magic[0], magic[1], Version, byte(lang), byte(dt))
	dst = binary.AppendUvarint(dst, uint64(len(payload)))
	dst = append(dst, payload...)
	return binary.BigEndian.AppendUint32(dst, crc32.Checksum(dst[start:], crcTable)), nil
}

// EncodeFrame frames a stream together with its language and data type.
func EncodeFrame(f Frame) ([]byte, error) {
	return AppendFrame(nil, f)
}

// DecodeFrame reads a single frame occupying all of src.
func DecodeFrame(src []byte) (Frame, error) {
	r := NewReader(bytes.NewReader(src))
	f, err := r.Next()
	if err == io.EOF {
		return Frame{}, &OffsetError{Offset: 0, Reason: "empty input"}
	} else if err != nil {
		return Frame{}, err
	}
	if r.offset != len(src) {
		return Frame{}, &OffsetError{Offset: r.offset, Reason: "trailing bytes after frame"}
	}
	return f, nil
}

// Writer writes frames to an io.Writer.
type Writer struct {
	w   io.Writer
	buf []byte
}

// NewWriter creates a frame writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes one frame.
func (w *Writer) Write(f Frame) error {
	var err error
	if w.buf, err = AppendFrame(w.buf[:0], f); err != nil {
		return err
	}
	_, err = w.w.Write(w.buf)
	return err
}

// Reader reads consecutive frames from an io.Reader.
type Reader struct {
	r          *bufio.Reader
	maxPayload int
	offset     int
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxPayload limits the payload size of frames (default MaxPayload).
func WithMaxPayload(max int) ReaderOption {
	return func(r *Reader) {
		r.maxPayload = max
	}
}

// NewReader creates a frame reader.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	reader := &Reader{r: bufio.NewReader(r), maxPayload: MaxPayload}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Next reads the next frame. It returns io.EOF if the input is exhausted
// at a frame boundary. Checksum mismatches and malformed frames are
// reported as ErrCorruptWire.
func (r *Reader) Next() (Frame, error) {
	start := r.offset
	var head [5]byte
	n, err := io.ReadFull(r.r, head[:])
	if err == io.EOF {
		return Frame{}, io.EOF
	} else if err != nil {
		return Frame{}, r.truncated(start + n)
	}
	r.offset += n
	if head[0] != magic[0] || head[1] != magic[1] {
		return Frame{}, &OffsetError{Offset: start, Reason: "missing frame magic"}
	}
	if head[2] != Version {
		return Frame{}, &OffsetError{Offset: start + 2, Reason: fmt.Sprintf("unsupported frame version %d", head[2])}
	}
	var f Frame
	if l := int(head[3]); l > len(numcode.Languages) {
		return Frame{}, &OffsetError{Offset: start + 3, Reason: fmt.Sprintf("invalid language index %d", l)}
	} else if l > 0 {
		f.Language = numcode.Languages[l-1]
	}
	if d := int(head[4]); d > len(numcode.DataTypes) {
		return Frame{}, &OffsetError{Offset: start + 4, Reason: fmt.Sprintf("invalid data type index %d", d)}
	} else if d > 0 {
		f.DataType = numcode.DataTypes[d-1]
	}
	crc := crc32.Update(0, crcTable, head[:])
	counter := &countingReader{r: r.r}
	length, err := binary.ReadUvarint(counter)
	crc = crc32.Update(crc, crcTable, counter.read)
	r.offset += len(counter.read)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, r.truncated(r.offset)
		}
		return Frame{}, &OffsetError{Offset: r.offset, Reason: "invalid payload length", Err: err}
	}
	if length > uint64(r.maxPayload) {
		return Frame{}, &OffsetError{Offset: r.offset, Reason: fmt.Sprintf("payload too large: %d > %d", length, r.maxPayload)}
	}
	body := make([]byte, int(length)+4)
	n, err = io.ReadFull(r.r, body)
	if err != nil {
		return Frame{}, r.truncated(r.offset + n)
	}
	payload := body[:length]
	crc = crc32.Update(crc, crcTable, payload)
	if want := binary.BigEndian.Uint32(body[length:]); want != crc {
		return Frame{}, &OffsetError{Offset: r.offset + int(length),
			Reason: fmt.Sprintf("checksum mismatch: frame says %08x, computed %08x", want, crc)}
	}
	if f.Stream, err = Decode(payload); err != nil {
		var oerr *OffsetError
		if errors.As(err, &oerr) {
			oerr.Offset += r.offset
		}
		return Frame{}, err
	}
	r.offset += len(body)
	tracer().Debugf("read frame of %d units (%s)", len(f.Stream), f.Language)
	return f, nil
}

func (r *Reader) truncated(at int) error {
	return &OffsetError{Offset: at, Reason: "truncated frame", Err: io.ErrUnexpectedEOF}
}

// countingReader remembers the bytes consumed by binary.ReadUvarint.
type countingReader struct {
	r    io.ByteReader
	read []byte
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.read = append(c.read, b)
	}
	return b, err
}
