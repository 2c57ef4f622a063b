package sample

import (
	"os"
	"strings"
)

type Reader struct{ *os.File }

func (r *Reader) Hidden() bool { return strings.HasPrefix(r.Name(), ".") }

func Use(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r := &Reader{File: f}
	_ = r.Hidden()
	return nil
}
