// Package npyio writes float32 tensors in the NumPy .npy format,
// and bundles of them as .npz archives, for consumption by the
// Python training code.
package npyio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
)

var order = binary.LittleEndian

// Write writes v to w as a one-dimensional .npy array.
func Write(w io.Writer, v []float32) error {
	return write(w, fmt.Sprintf("(%d,)", len(v)), v)
}

// Write2D writes v to w as a row-major two-dimensional .npy array
// with the given dimensions.
func Write2D(w io.Writer, v []float32, rows, cols int) error {
	if rows*cols != len(v) {
		return errors.Errorf("%d elements do not fill a %dx%d array", len(v), rows, cols)
	}

	return write(w, fmt.Sprintf("(%d, %d)", rows, cols), v)
}

func write(w io.Writer, shape string, v []float32) error {
	if err := writeHeader(w, shape); err != nil {
		return err
	}

	var buf [4]byte
	for _, x := range v {
		order.PutUint32(buf[:], math.Float32bits(x))
		_, err := w.Write(buf[:])
		if err != nil {
			return err
		}
	}

	return nil
}

// The following is adapted from: github.com/sbinet/npyio
var magic = [6]byte{'\x93', 'N', 'U', 'M', 'P', 'Y'}

const (
	majorVersion = byte(2)
	minorVersion = byte(0)
)

func writeHeader(w io.Writer, shape string) error {
	if err := binary.Write(w, order, magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, order, majorVersion); err != nil {
		return err
	}
	if err := binary.Write(w, order, minorVersion); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	fmt.Fprintf(buf,
		"{'descr': '<f4', 'fortran_order': False, 'shape': %s, }",
		shape)

	// Pad with spaces so that the data that follows the final newline
	// is 16-byte aligned.
	var hdrSize = 6 + len(magic)
	padding := (16 - (hdrSize+buf.Len()+1)%16) % 16
	if _, err := buf.Write(bytes.Repeat([]byte{'\x20'}, padding)); err != nil {
		return err
	}
	if _, err := buf.Write([]byte{'\n'}); err != nil {
		return err
	}

	buflen := int64(buf.Len())
	if err := binary.Write(w, order, uint32(buflen)); err != nil {
		return err
	}

	if n, err := io.Copy(w, buf); err != nil {
		return err
	} else if n < buflen {
		return io.ErrShortWrite
	}

	return nil
}
