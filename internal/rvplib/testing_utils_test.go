package rvplib

import (
	"io"
	"os"
	"testing"

	"github.com/pterm/pterm"
)

func TestMain(m *testing.M) {
	// Keep spinners and messages out of the test output
	pterm.SetDefaultOutput(io.Discard)
	pterm.DefaultSpinner.Writer = io.Discard
	os.Exit(m.Run())
}

const articleResponse = `{
    "data": {"type": "articles",
             "id": "1",
             "attributes": {"title": "Hello"},
             "relationships": {"author": {"data": {"type": "people", "id": "9"}}}},
    "included": [{"type": "people", "id": "9", "attributes": {"name": "Ann"}}]
}`
