package rvplib

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/pterm/pterm"
	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
)

type DeleteCommandArguments struct {
	Type  string
	Id    string
	Force bool
	// Whether the user can be asked for confirmation
	Interactive bool
	Indent      bool
}

var ErrDeleteCancelled = errors.New("deletion cancelled")

// Replaced in tests
var confirm = func(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

func DeleteCommand(
	ctx context.Context,
	api *jsonapi.Connection,
	arguments DeleteCommandArguments,
	out io.Writer,
) error {
	if arguments.Id == "" {
		return errors.New("please provide the id of the resource to delete")
	}
	if !arguments.Force {
		if !arguments.Interactive {
			return errors.New(
				"refusing to delete without confirmation, use --force",
			)
		}
		if !confirm(fmt.Sprintf(
			"Delete '%s' '%s'", arguments.Type, arguments.Id,
		)) {
			pterm.Info.Println("Deletion cancelled")
			return ErrDeleteCancelled
		}
	}

	spinner, err := pterm.DefaultSpinner.Start(
		fmt.Sprintf("Deleting '%s' '%s'", arguments.Type, arguments.Id),
	)
	if err != nil {
		return err
	}
	document, err := api.Remove(ctx, arguments.Type, arguments.Id)
	if err != nil {
		spinner.Fail(fmt.Sprintf(
			"Deletion of '%s' '%s' failed", arguments.Type, arguments.Id,
		))
		return err
	}
	spinner.Success(fmt.Sprintf(
		"'%s' '%s' deleted", arguments.Type, arguments.Id,
	))

	// Some servers respond with meta information
	if document != nil {
		return writeDocument(out, document, arguments.Indent)
	}
	return nil
}
