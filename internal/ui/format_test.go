package ui

import (
	"bytes"
	"go/format"
	"os"
	"testing"
)

func TestSourcesAreFormatted(t *testing.T) {
	for _, path := range []string{
		"theme.go",
		"../tui/messages.go",
		"../logging/logging.go",
	} {
		src, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := format.Source(src)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if !bytes.Equal(got, src) {
			t.Errorf("%s is not gofmt-formatted", path)
		}
	}
}
