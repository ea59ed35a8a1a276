package jsonapi

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

type Query struct {
	// Sparse fieldsets, resource type -> attribute names
	Fields     map[string][]string
	Filters    map[string]string
	Include    []string
	Sort       []string
	// Only positive values are sent
	PageOffset int
	PageLimit  int
	Extras     map[string]string
}

/*
Encode
Converts a Query object to a string that's ready to be used as GET variables
for {json:api} requests.

Fragments always come in the same order: fields, filters, include, sort,
page[offset], page[limit] and finally extras. Map entries are sorted by key.
A zero or negative offset or limit is left out, same as an unset one; callers
that need to reject negative values must do so before encoding.
*/
func (q Query) Encode() string {
	var params []string

	for _, key := range sortedKeys(q.Fields) {
		params = append(params, fmt.Sprintf(
			"fields[%s]=%s", key, strings.Join(q.Fields[key], ","),
		))
	}
	for _, key := range sortedKeys(q.Filters) {
		params = append(params, fmt.Sprintf(
			"filter[%s]=%s",
			encodeComponent(key),
			encodeComponent(q.Filters[key]),
		))
	}
	if len(q.Include) > 0 {
		params = append(params, "include="+strings.Join(q.Include, ","))
	}
	if len(q.Sort) > 0 {
		params = append(params, "sort="+strings.Join(q.Sort, ","))
	}
	if q.PageOffset > 0 {
		params = append(params, fmt.Sprintf("page[offset]=%d", q.PageOffset))
	}
	if q.PageLimit > 0 {
		params = append(params, fmt.Sprintf("page[limit]=%d", q.PageLimit))
	}
	for _, key := range sortedKeys(q.Extras) {
		params = append(params, fmt.Sprintf(
			"%s=%s", url.QueryEscape(key), url.QueryEscape(q.Extras[key]),
		))
	}
	return strings.Join(params, "&")
}

// Like QueryEscape, but spaces become '%20' instead of '+'
func encodeComponent(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
