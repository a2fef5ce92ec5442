package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []float32{1, 2, 3, 4, 5, 6}, []int{3, 1, 2}))

	b := buf.Bytes()
	require.Equal(t, "\x93NUMPY", string(b[:6]))
	require.Equal(t, []byte{1, 0}, b[6:8])

	hlen := int(binary.LittleEndian.Uint16(b[8:10]))
	require.Zero(t, (10+hlen)%64, "data must start aligned")
	hdr := string(b[10 : 10+hlen])
	require.Contains(t, hdr, "'descr': '<f4'")
	require.Contains(t, hdr, "'fortran_order': False")
	require.Contains(t, hdr, "'shape': (3, 1, 2)")
	require.Equal(t, byte('\n'), hdr[len(hdr)-1])
	require.Len(t, b, 10+hlen+6*4)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		data  []float32
		shape []int
	}{
		{"vector", []float32{0.5, -1, 3.25}, []int{3}},
		{"field", []float32{0, 1, 0.25, 0.75, 1, 0, 0.5, 0.5}, []int{2, 2, 2}},
		{"series", make([]float32, 4*3*5*2), []int{4, 3, 5, 2}},
		{"empty", []float32{}, []int{0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tt.data, tt.shape))
			data, shape, err := Read(&buf)
			require.NoError(t, err)
			require.Equal(t, tt.shape, shape)
			require.Equal(t, tt.data, data)
		})
	}
}

func TestWriteShapeMismatch(t *testing.T) {
	err := Write(&bytes.Buffer{}, []float32{1, 2, 3}, []int{2, 2})
	require.Error(t, err)
}

func TestReadFloat64(t *testing.T) {
	hdr := "{'descr': '<f8', 'fortran_order': False, 'shape': (2,), }\n"
	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY\x01\x00")
	binary.Write(&buf, binary.LittleEndian, uint16(len(hdr)))
	buf.WriteString(hdr)
	binary.Write(&buf, binary.LittleEndian, []float64{0.125, 2})

	data, shape, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, []int{2}, shape)
	require.Equal(t, []float32{0.125, 2}, data)
}

func TestReadRejects(t *testing.T) {
	build := func(hdr string) *bytes.Buffer {
		var buf bytes.Buffer
		buf.WriteString("\x93NUMPY\x01\x00")
		binary.Write(&buf, binary.LittleEndian, uint16(len(hdr)))
		buf.WriteString(hdr)
		return &buf
	}

	tests := []struct {
		name string
		in   *bytes.Buffer
	}{
		{"bad magic", bytes.NewBufferString("NOTNPY\x01\x00\x00\x00")},
		{"int dtype", build("{'descr': '<i4', 'fortran_order': False, 'shape': (1,), }\n")},
		{"fortran", build("{'descr': '<f4', 'fortran_order': True, 'shape': (1,), }\n")},
		{"no shape", build("{'descr': '<f4', 'fortran_order': False, }\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Read(tt.in)
			require.True(t, errors.Is(err, ErrFormat), "got %v", err)
		})
	}
}
