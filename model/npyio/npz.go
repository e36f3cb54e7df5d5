package npyio

import (
	"bufio"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// Array is one float32 tensor destined for an entry of an .npz archive.
// Cols == 0 means a one-dimensional array; otherwise the data is
// row-major with the given number of columns.
type Array struct {
	Data []float32
	Cols int
}

// MakeNPZ writes the given arrays to output as an .npz archive with one
// .npy entry per array, loadable with numpy.load.
func MakeNPZ(output string, arrays map[string]Array) error {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	b := bufio.NewWriter(f)
	z := zip.NewWriter(b)
	for name, arr := range arrays {
		w, err := z.Create(name + ".npy")
		if err != nil {
			return errors.Wrapf(err, "creating %v entry", name)
		}

		if arr.Cols == 0 {
			err = Write(w, arr.Data)
		} else {
			err = Write2D(w, arr.Data, len(arr.Data)/arr.Cols, arr.Cols)
		}
		if err != nil {
			return errors.Wrapf(err, "writing %v entry", name)
		}
	}

	if err := z.Close(); err != nil {
		return err
	}

	return b.Flush()
}
