package fracture

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Load reads an object from a file using a reader function such as
// ReadFragments.
func Load[T any](path string, reader func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, errors.Wrap(err, "load")
	}
	defer f.Close()
	res, err := reader(bufio.NewReader(f))
	if err != nil {
		return zero, errors.Wrapf(err, "load %s", path)
	}
	return res, nil
}

// Save writes an object to a file using a writer function such as
// WriteFragments.
func Save[T any](path string, obj T, writer func(io.Writer, T) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := writer(w, obj); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
