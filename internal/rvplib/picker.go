package rvplib

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
)

// Replaced in tests
var findResource = func(
	resources []*jsonapi.ResourceObject, header string,
) (int, error) {
	return fuzzyfinder.Find(
		resources,
		func(i int) string {
			return describeResource(resources[i])
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			body, err := json.MarshalIndent(resources[i], "", "  ")
			if err != nil {
				return err.Error()
			}
			return string(body)
		}),
		fuzzyfinder.WithHeader(header),
	)
}

// "<id>: <first of name/title/slug>", falling back to the id alone
func describeResource(resource *jsonapi.ResourceObject) string {
	for _, key := range []string{"name", "title", "slug"} {
		if value, exists := resource.Attributes[key]; exists {
			return fmt.Sprintf("%s: %v", resource.Id, value)
		}
	}
	return resource.Id
}

func pickResource(
	ctx context.Context, api *jsonapi.Connection, Type string, query jsonapi.Query,
) (string, error) {
	document, err := api.FetchList(ctx, Type, query)
	if err != nil {
		return "", err
	}
	resources := document.Resources()
	if len(resources) == 0 {
		return "", fmt.Errorf("no '%s' to pick from", Type)
	}
	index, err := findResource(resources, fmt.Sprintf("Select a '%s'", Type))
	if err != nil {
		return "", err
	}
	return resources[index].Id, nil
}
