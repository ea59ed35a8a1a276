package rvplib

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
)

// Query parameters as given on the command line
type QueryArguments struct {
	// "<type>=<field>,<field>"
	Fields []string
	// "<key>=<value>"
	Filters []string
	Include string
	Sort    string
	Offset  int
	Limit   int
}

func (args QueryArguments) Query() (jsonapi.Query, error) {
	var query jsonapi.Query

	for _, field := range args.Fields {
		key, value, err := splitPair(field, "fields")
		if err != nil {
			return query, err
		}
		if query.Fields == nil {
			query.Fields = make(map[string][]string)
		}
		query.Fields[key] = append(query.Fields[key], splitList(value)...)
	}

	for _, filter := range args.Filters {
		key, value, err := splitPair(filter, "filter")
		if err != nil {
			return query, err
		}
		if query.Filters == nil {
			query.Filters = make(map[string]string)
		}
		query.Filters[key] = value
	}

	query.Include = splitList(args.Include)
	query.Sort = splitList(args.Sort)

	if args.Offset < 0 || args.Limit < 0 {
		return query, errors.New("offset and limit must not be negative")
	}
	query.PageOffset = args.Offset
	query.PageLimit = args.Limit

	return query, nil
}

func splitPair(value, flag string) (string, string, error) {
	key, rest, found := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf(
			"invalid --%s value '%s', expected 'key=value'", flag, value,
		)
	}
	return key, rest, nil
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
