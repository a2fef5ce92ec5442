// Package npy reads and writes float32 arrays in the NumPy .npy v1.0 format
// so runs can be loaded with numpy.load.
package npy

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var magic = []byte("\x93NUMPY")

var ErrFormat = errors.New("npy: unsupported format")

const headerAlign = 64

// Write stores data as a little-endian float32 C-order array of the given
// shape.
func Write(w io.Writer, data []float32, shape []int) error {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return fmt.Errorf("npy: negative dimension in %v", shape)
		}
		n *= d
	}
	if n != len(data) {
		return fmt.Errorf("npy: shape %v needs %d values, got %d", shape, n, len(data))
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header(shape)); err != nil {
		return err
	}
	var buf [4]byte
	for _, v := range data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func header(shape []int) []byte {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	tuple := strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}
	dict := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%s), }", tuple)

	// magic + version + length prefix, then the dict padded so the data
	// starts on an aligned offset.
	pre := len(magic) + 2 + 2
	pad := headerAlign - (pre+len(dict)+1)%headerAlign
	if pad == headerAlign {
		pad = 0
	}
	dict += strings.Repeat(" ", pad) + "\n"

	var b bytes.Buffer
	b.Write(magic)
	b.Write([]byte{1, 0})
	binary.Write(&b, binary.LittleEndian, uint16(len(dict)))
	b.WriteString(dict)
	return b.Bytes()
}

// Read loads a v1.x or v2.x file holding '<f4' or '<f8' values in C order.
// Doubles are narrowed to float32.
func Read(r io.Reader) ([]float32, []int, error) {
	br := bufio.NewReader(r)
	pre := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(br, pre); err != nil {
		return nil, nil, fmt.Errorf("npy: read preamble: %w", err)
	}
	if !bytes.Equal(pre[:len(magic)], magic) {
		return nil, nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}

	var hlen int
	switch pre[len(magic)] {
	case 1:
		var n uint16
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, nil, err
		}
		hlen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, nil, err
		}
		hlen = int(n)
	default:
		return nil, nil, fmt.Errorf("%w: version %d", ErrFormat, pre[len(magic)])
	}

	hdr := make([]byte, hlen)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, nil, fmt.Errorf("npy: read header: %w", err)
	}
	descr, fortran, shape, err := parseHeader(string(hdr))
	if err != nil {
		return nil, nil, err
	}
	if fortran {
		return nil, nil, fmt.Errorf("%w: fortran order", ErrFormat)
	}

	n := 1
	for _, d := range shape {
		n *= d
	}
	data := make([]float32, n)
	switch descr {
	case "<f4":
		buf := make([]byte, 4*n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, nil, fmt.Errorf("npy: read data: %w", err)
		}
		for i := range data {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
		}
	case "<f8":
		buf := make([]byte, 8*n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, nil, fmt.Errorf("npy: read data: %w", err)
		}
		for i := range data {
			data[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:])))
		}
	default:
		return nil, nil, fmt.Errorf("%w: dtype %s", ErrFormat, descr)
	}
	return data, shape, nil
}

func parseHeader(h string) (descr string, fortran bool, shape []int, err error) {
	h = strings.TrimSpace(h)
	field := func(key string) (string, bool) {
		i := strings.Index(h, "'"+key+"'")
		if i < 0 {
			return "", false
		}
		rest := strings.TrimSpace(h[i+len(key)+2:])
		return strings.TrimSpace(strings.TrimPrefix(rest, ":")), true
	}

	v, ok := field("descr")
	if !ok || len(v) < 2 {
		return "", false, nil, fmt.Errorf("%w: missing descr", ErrFormat)
	}
	q := v[0]
	end := strings.IndexByte(v[1:], q)
	if end < 0 {
		return "", false, nil, fmt.Errorf("%w: bad descr", ErrFormat)
	}
	descr = v[1 : end+1]

	v, ok = field("fortran_order")
	if !ok {
		return "", false, nil, fmt.Errorf("%w: missing fortran_order", ErrFormat)
	}
	fortran = strings.HasPrefix(v, "True")

	v, ok = field("shape")
	if !ok || !strings.HasPrefix(v, "(") {
		return "", false, nil, fmt.Errorf("%w: missing shape", ErrFormat)
	}
	rp := strings.IndexByte(v, ')')
	if rp < 0 {
		return "", false, nil, fmt.Errorf("%w: bad shape", ErrFormat)
	}
	shape = []int{}
	for _, part := range strings.Split(v[1:rp], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil || d < 0 {
			return "", false, nil, fmt.Errorf("%w: shape %q", ErrFormat, v[:rp+1])
		}
		shape = append(shape, d)
	}
	return descr, fortran, shape, nil
}
