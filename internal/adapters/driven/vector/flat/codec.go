package flat

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// FormatVersion is the current artifact version.
const FormatVersion = 1

var magic = [8]byte{'P', 'D', 'F', 'R', 'A', 'G', 'F', 'X'}

// ErrBadFormat indicates the file is not an index artifact or is corrupt.
var ErrBadFormat = errors.New("flat: not a valid index file")

// Header describes an index artifact without its vectors.
type Header struct {
	Version    uint32
	Dimensions int
	Count      int
	Generation string
}

// WriteFile writes the index to path, stamped with generation, and syncs it.
func (idx *Index) WriteFile(path, generation string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	if err := idx.Encode(f, generation); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync index file: %w", err)
	}
	return f.Close()
}

// Encode writes the artifact to w.
func (idx *Index) Encode(w io.Writer, generation string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return errors.New("flat: index is closed")
	}
	if len(generation) > math.MaxUint16 {
		return errors.New("flat: generation too long")
	}

	bw := bufio.NewWriter(w)

	header := make([]byte, 0, 26+len(generation))
	header = append(header, magic[:]...)
	header = binary.LittleEndian.AppendUint32(header, FormatVersion)
	header = binary.LittleEndian.AppendUint32(header, uint32(idx.dimension))
	header = binary.LittleEndian.AppendUint64(header, uint64(idx.count))
	header = binary.LittleEndian.AppendUint16(header, uint16(len(generation)))
	header = append(header, generation...)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}

	var buf [4]byte
	for _, f := range idx.data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("write vectors: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	return nil
}

// ReadFile loads the artifact at path.
func ReadFile(path string) (*Index, *Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return Decode(f)
}

// ReadHeader reads only the header of the artifact at path.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeHeader(bufio.NewReader(f))
}

// Decode reads an artifact from r.
func Decode(r io.Reader) (*Index, *Header, error) {
	br := bufio.NewReader(r)

	h, err := decodeHeader(br)
	if err != nil {
		return nil, nil, err
	}

	total := h.Count * h.Dimensions
	data := make([]float32, total)
	var buf [4]byte
	for i := range data {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, nil, fmt.Errorf("%w: truncated vectors: %w", ErrBadFormat, err)
		}
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))
	}

	return newFromData(data, h.Dimensions, h.Count), h, nil
}

func decodeHeader(r io.Reader) (*Header, error) {
	var fixed [26]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrBadFormat, err)
	}
	if [8]byte(fixed[:8]) != magic {
		return nil, ErrBadFormat
	}

	h := &Header{
		Version:    binary.LittleEndian.Uint32(fixed[8:12]),
		Dimensions: int(binary.LittleEndian.Uint32(fixed[12:16])),
		Count:      int(binary.LittleEndian.Uint64(fixed[16:24])),
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadFormat, h.Version)
	}
	if h.Dimensions <= 0 || h.Count <= 0 {
		return nil, fmt.Errorf("%w: empty index", ErrBadFormat)
	}
	if h.Count > math.MaxInt32/h.Dimensions {
		return nil, fmt.Errorf("%w: implausible size %dx%d", ErrBadFormat, h.Count, h.Dimensions)
	}

	gen := make([]byte, binary.LittleEndian.Uint16(fixed[24:26]))
	if _, err := io.ReadFull(r, gen); err != nil {
		return nil, fmt.Errorf("%w: short generation: %w", ErrBadFormat, err)
	}
	h.Generation = string(gen)

	return h, nil
}
