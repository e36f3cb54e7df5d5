package npyio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

// parseNPY splits a .npy byte stream into its header dict and raw data.
func parseNPY(t *testing.T, buf []byte) (string, []byte) {
	t.Helper()
	if len(buf) < 12 {
		t.Fatalf("npy output is only %d bytes", len(buf))
	}
	if !bytes.Equal(buf[:6], magic[:]) {
		t.Fatalf("npy magic = %q, expected %q", buf[:6], magic[:])
	}
	if buf[6] != majorVersion || buf[7] != minorVersion {
		t.Errorf("npy version = %d.%d, expected %d.%d", buf[6], buf[7], majorVersion, minorVersion)
	}

	hdrLen := int(binary.LittleEndian.Uint32(buf[8:12]))
	if len(buf) < 12+hdrLen {
		t.Fatalf("npy header claims %d bytes, output has %d", hdrLen, len(buf)-12)
	}
	return string(buf[12 : 12+hdrLen]), buf[12+hdrLen:]
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	v := []float32{1.5, -2, 0.25}
	if err := Write(&buf, v); err != nil {
		t.Fatal(err)
	}

	header, data := parseNPY(t, buf.Bytes())
	for _, want := range []string{"'descr': '<f4'", "'fortran_order': False", "'shape': (3,)"} {
		if !strings.Contains(header, want) {
			t.Errorf("header %q does not contain %q", header, want)
		}
	}
	if !strings.HasSuffix(header, "\n") {
		t.Errorf("header does not end with a newline")
	}
	if (12+len(header))%16 != 0 {
		t.Errorf("data begins at offset %d, expected 16-byte alignment", 12+len(header))
	}

	if len(data) != 4*len(v) {
		t.Fatalf("data is %d bytes, expected %d", len(data), 4*len(v))
	}
	for i, x := range v {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		if got != x {
			t.Errorf("data[%d] = %v, expected %v", i, got, x)
		}
	}
}

func TestWrite2D(t *testing.T) {
	var buf bytes.Buffer
	v := []float32{0, 1, 2, 3, 4, 5}
	if err := Write2D(&buf, v, 2, 3); err != nil {
		t.Fatal(err)
	}

	header, data := parseNPY(t, buf.Bytes())
	if !strings.Contains(header, "'shape': (2, 3)") {
		t.Errorf("header %q does not contain the 2-D shape", header)
	}

	// Row-major: element (1, 0) is the fourth value.
	got := math.Float32frombits(binary.LittleEndian.Uint32(data[4*3:]))
	if got != 3 {
		t.Errorf("element (1, 0) = %v, expected 3", got)
	}
}

func TestWrite2DWrongShape(t *testing.T) {
	var buf bytes.Buffer
	if err := Write2D(&buf, make([]float32, 5), 2, 3); err == nil {
		t.Errorf("expected error for 5 elements in a 2x3 array")
	}
}

func TestMakeNPZ(t *testing.T) {
	output := filepath.Join(t.TempDir(), "batch.npz")
	x := []float32{0, 1, 2, 3, 4, 5}
	weights := []float32{0.5, 1.5}
	err := MakeNPZ(output, map[string]Array{
		"x":             {Data: x, Cols: 3},
		"sample_weight": {Data: weights},
	})
	if err != nil {
		t.Fatal(err)
	}

	r, err := zip.OpenReader(output)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	entries := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		entries[f.Name] = data
	}

	var expected bytes.Buffer
	if err := Write2D(&expected, x, 2, 3); err != nil {
		t.Fatal(err)
	}
	if got, ok := entries["x.npy"]; !ok {
		t.Errorf("npz is missing the x.npy entry")
	} else if !bytes.Equal(got, expected.Bytes()) {
		t.Errorf("x.npy entry differs from direct Write2D output")
	}

	expected.Reset()
	if err := Write(&expected, weights); err != nil {
		t.Fatal(err)
	}
	if got, ok := entries["sample_weight.npy"]; !ok {
		t.Errorf("npz is missing the sample_weight.npy entry")
	} else if !bytes.Equal(got, expected.Bytes()) {
		t.Errorf("sample_weight.npy entry differs from direct Write output")
	}
}
