package rvplib

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"reflect"

	"github.com/google/shlex"
)

func invokeEditor(input []byte, editor string) ([]byte, error) {
	if editor == "" {
		return nil, errors.New(
			"no editor specified, use the --editor flag or set the EDITOR " +
				"environment variable",
		)
	}
	tempFile, err := os.CreateTemp("", "*.json")
	if err != nil {
		return nil, err
	}
	path := tempFile.Name()
	defer os.Remove(path)
	_, err = tempFile.Write(input)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}
	editorArgs, err := shlex.Split(editor)
	if err != nil {
		return nil, err
	}
	if len(editorArgs) == 0 {
		return nil, errors.New("editor command is empty")
	}
	editorArgs = append(editorArgs, path)
	cmd := exec.Command(editorArgs[0], editorArgs[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err != nil {
		return nil, err
	}
	// Editors may replace the file instead of writing into it
	return os.ReadFile(path)
}

// Keeps numbers as json.Number so large integers survive
func decodeJSON(body []byte, result interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	err := decoder.Decode(result)
	if err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after the JSON value")
	}
	return nil
}

/*
Let the user edit 'preAttributes' and return only the attributes that were
changed or added.
*/
func editAttributes(
	editor string, preAttributes map[string]interface{},
) (map[string]interface{}, error) {
	if preAttributes == nil {
		preAttributes = make(map[string]interface{})
	}
	body, err := json.MarshalIndent(preAttributes, "", "  ")
	if err != nil {
		return nil, err
	}
	body, err = invokeEditor(body, editor)
	if err != nil {
		return nil, err
	}
	var postAttributes map[string]interface{}
	err = decodeJSON(body, &postAttributes)
	if err != nil {
		return nil, err
	}
	for field, postValue := range postAttributes {
		preValue, exists := preAttributes[field]
		if exists && reflect.DeepEqual(preValue, postValue) {
			delete(postAttributes, field)
		}
	}
	return postAttributes, nil
}
