package sample

import (
	"os"
	"testing"
)

func TestUse(t *testing.T) {
	if err := Use(os.DevNull); err != nil {
		t.Fatal(err)
	}
}
