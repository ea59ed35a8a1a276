package rvplib

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
)

type WriteCommandArguments struct {
	Type string
	// Only for updates
	Id string
	// JSON objects
	Attributes    string
	Relationships string
	// Open the attributes in an editor before sending them
	Edit   bool
	Editor string
	Indent bool
}

func (args WriteCommandArguments) parse() (
	map[string]interface{}, map[string]*jsonapi.Relationship, error,
) {
	var attributes map[string]interface{}
	var relationships map[string]*jsonapi.Relationship
	if args.Attributes != "" {
		err := decodeJSON([]byte(args.Attributes), &attributes)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid attributes: %w", err)
		}
	}
	if args.Relationships != "" {
		err := decodeJSON([]byte(args.Relationships), &relationships)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid relationships: %w", err)
		}
	}
	return attributes, relationships, nil
}

func CreateCommand(
	ctx context.Context,
	api *jsonapi.Connection,
	arguments WriteCommandArguments,
	out io.Writer,
) error {
	attributes, relationships, err := arguments.parse()
	if err != nil {
		return err
	}
	if arguments.Edit {
		edited, err := editAttributes(arguments.Editor, attributes)
		if err != nil {
			return err
		}
		if attributes == nil {
			attributes = edited
		} else {
			for key, value := range edited {
				attributes[key] = value
			}
		}
	}

	spinner, err := pterm.DefaultSpinner.Start(
		fmt.Sprintf("Creating '%s'", arguments.Type),
	)
	if err != nil {
		return err
	}
	document, err := api.Create(ctx, arguments.Type, attributes, relationships)
	if err != nil {
		spinner.Fail(fmt.Sprintf("Could not create '%s'", arguments.Type))
		return err
	}
	if document == nil || document.Data.Singular == nil {
		spinner.Success(fmt.Sprintf("Created '%s'", arguments.Type))
		return nil
	}
	spinner.Success(fmt.Sprintf(
		"Created '%s' with id '%s'", arguments.Type, document.Data.Singular.Id,
	))
	return writeDocument(out, document, arguments.Indent)
}

/*
UpdateCommand
With 'Edit', the current attributes are fetched and opened in the editor; only
the attributes that the user changed are sent, together with any given with
'Attributes'.
*/
func UpdateCommand(
	ctx context.Context,
	api *jsonapi.Connection,
	arguments WriteCommandArguments,
	out io.Writer,
) error {
	if arguments.Id == "" {
		return errors.New("please provide the id of the resource to update")
	}
	attributes, relationships, err := arguments.parse()
	if err != nil {
		return err
	}
	if arguments.Edit {
		current, err := api.FetchSingle(
			ctx, arguments.Type, arguments.Id, jsonapi.Query{},
		)
		if err != nil {
			return err
		}
		var preAttributes map[string]interface{}
		if current.Data.Singular != nil {
			preAttributes = current.Data.Singular.Attributes
		}
		for key, value := range attributes {
			if preAttributes == nil {
				preAttributes = make(map[string]interface{})
			}
			preAttributes[key] = value
		}
		changed, err := editAttributes(arguments.Editor, preAttributes)
		if err != nil {
			return err
		}
		if attributes == nil {
			attributes = make(map[string]interface{})
		}
		for key, value := range changed {
			attributes[key] = value
		}
	}
	if len(attributes) == 0 && len(relationships) == 0 {
		pterm.Warning.Println("Nothing to update")
		return nil
	}

	spinner, err := pterm.DefaultSpinner.Start(
		fmt.Sprintf("Updating '%s' '%s'", arguments.Type, arguments.Id),
	)
	if err != nil {
		return err
	}
	document, err := api.Update(
		ctx, arguments.Type, arguments.Id, attributes, relationships,
	)
	if err != nil {
		spinner.Fail(fmt.Sprintf(
			"Could not update '%s' '%s'", arguments.Type, arguments.Id,
		))
		return err
	}
	spinner.Success(fmt.Sprintf(
		"Updated '%s' '%s'", arguments.Type, arguments.Id,
	))
	if document == nil {
		return nil
	}
	return writeDocument(out, document, arguments.Indent)
}
