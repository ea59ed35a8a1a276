package rvplib

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
)

type ListCommandArguments struct {
	Type   string
	Query  QueryArguments
	Indent bool
}

func ListCommand(
	ctx context.Context,
	api *jsonapi.Connection,
	arguments ListCommandArguments,
	out io.Writer,
) error {
	query, err := arguments.Query.Query()
	if err != nil {
		return err
	}

	spinner, err := pterm.DefaultSpinner.Start(
		fmt.Sprintf("Fetching '%s'", arguments.Type),
	)
	if err != nil {
		return err
	}
	document, err := api.FetchList(ctx, arguments.Type, query)
	if err != nil {
		spinner.Fail(fmt.Sprintf("Could not fetch '%s'", arguments.Type))
		return err
	}
	spinner.Success(fmt.Sprintf(
		"Fetched %d '%s'", len(document.Resources()), arguments.Type,
	))

	return writeDocument(out, document, arguments.Indent)
}
