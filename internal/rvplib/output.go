package rvplib

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
)

// Pretty-print on terminals, compact JSON when piped
func ShouldIndent(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func writeDocument(out io.Writer, document *jsonapi.Document, indent bool) error {
	var body []byte
	var err error
	if indent {
		body, err = json.MarshalIndent(document, "", "  ")
	} else {
		body, err = json.Marshal(document)
	}
	if err != nil {
		return err
	}
	body = append(body, '\n')
	_, err = out.Write(body)
	return err
}
