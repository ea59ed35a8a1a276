package rvplib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/pterm/pterm"
	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
	"github.com/xlate/jsonapi-rvp/pkg/worker_pool"
)

type GetCommandArguments struct {
	Type  string
	Ids   []string
	Query QueryArguments
	// Write every document to '<dir>/<type>-<id>.json' instead of 'out'
	SaveDir string
	Workers int
	// Let the user choose a resource from a list fetch
	Pick   bool
	Indent bool
	// Where the worker pool reports progress
	Progress io.Writer
}

type fetchTask struct {
	ctx      context.Context
	api      *jsonapi.Connection
	Type     string
	Id       string
	query    jsonapi.Query
	document **jsonapi.Document
	err      *error
}

func (task fetchTask) Run(send func(string), abort func()) {
	send(fmt.Sprintf("%s %s: fetching", task.Type, task.Id))
	document, err := task.api.FetchSingle(task.ctx, task.Type, task.Id, task.query)
	if err != nil {
		*task.err = err
		send(pterm.Error.Sprintf("%s %s: %s", task.Type, task.Id, err))
		abort()
		return
	}
	*task.document = document
	send(fmt.Sprintf("%s %s: done", task.Type, task.Id))
}

func GetCommand(
	ctx context.Context,
	api *jsonapi.Connection,
	arguments GetCommandArguments,
	out io.Writer,
) error {
	query, err := arguments.Query.Query()
	if err != nil {
		return err
	}

	ids := arguments.Ids
	if arguments.Pick {
		id, err := pickResource(ctx, api, arguments.Type, query)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return errors.New("please provide at least one resource id")
	}
	if arguments.SaveDir != "" {
		err = checkSavePaths(arguments.SaveDir, arguments.Type, ids)
		if err != nil {
			return err
		}
	}

	documents := make([]*jsonapi.Document, len(ids))
	if len(ids) == 1 {
		documents[0], err = api.FetchSingle(ctx, arguments.Type, ids[0], query)
		if err != nil {
			return err
		}
	} else {
		err = fetchConcurrently(ctx, api, arguments, query, ids, documents)
		if err != nil {
			return err
		}
	}

	for i, document := range documents {
		if arguments.SaveDir != "" {
			path, err := saveDocument(
				arguments.SaveDir, arguments.Type, ids[i], document,
				arguments.Indent,
			)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Saved '%s'", path)
			continue
		}
		err = writeDocument(out, document, arguments.Indent)
		if err != nil {
			return err
		}
	}
	return nil
}

func fetchConcurrently(
	ctx context.Context,
	api *jsonapi.Connection,
	arguments GetCommandArguments,
	query jsonapi.Query,
	ids []string,
	documents []*jsonapi.Document,
) error {
	progress := arguments.Progress
	if progress == nil {
		progress = os.Stderr
	}
	errs := make([]error, len(ids))
	pool := worker_pool.New(arguments.Workers, len(ids), progress)
	for i, id := range ids {
		pool.Add(fetchTask{
			ctx:      ctx,
			api:      api,
			Type:     arguments.Type,
			Id:       id,
			query:    query,
			document: &documents[i],
			err:      &errs[i],
		})
	}
	pool.Start()
	<-pool.Wait()

	if pool.IsAborted() {
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func savePath(dir, Type, Id string) string {
	return filepath.Join(dir, slug.Make(fmt.Sprintf("%s-%s", Type, Id))+".json")
}

// Slugs lose case and punctuation, so different ids may end up in one file
func checkSavePaths(dir, Type string, ids []string) error {
	seen := make(map[string]string, len(ids))
	for _, id := range ids {
		path := savePath(dir, Type, id)
		if other, exists := seen[path]; exists && other != id {
			return fmt.Errorf(
				"'%s' '%s' and '%s' would both be saved as '%s'",
				Type, other, id, path,
			)
		}
		seen[path] = id
	}
	return nil
}

// Returns the path of the written file
func saveDocument(
	dir, Type, Id string, document *jsonapi.Document, indent bool,
) (string, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	path := savePath(dir, Type, Id)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return path, writeDocument(file, document, indent)
}
