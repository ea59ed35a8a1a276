package rvplib

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/xlate/jsonapi-rvp/internal/rvplib/config"
)

type AddServerCommandArguments struct {
	Name    string
	BaseURL string
	CACert  string
	Timeout int
	// "<name>=<value>"
	Headers []string
	// Make this the default server
	Default bool
}

func AddServerCommand(
	cfg *config.RootConfig, arguments AddServerCommandArguments,
) error {
	if arguments.Name == "" {
		return errors.New("please provide a name for the server")
	}
	if arguments.BaseURL == "" {
		return errors.New("please provide the base URL of the server")
	}
	if arguments.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	server := config.Server{
		Name:    arguments.Name,
		BaseURL: arguments.BaseURL,
		CACert:  arguments.CACert,
		Timeout: arguments.Timeout,
	}
	for _, header := range arguments.Headers {
		name, value, err := splitPair(header, "header")
		if err != nil {
			return err
		}
		if server.Headers == nil {
			server.Headers = make(map[string]string)
		}
		server.Headers[name] = value
	}

	cfg.AddServer(server)
	if arguments.Default {
		cfg.DefaultServer = server.Name
	}
	err := cfg.Save()
	if err != nil {
		return err
	}
	pterm.Success.Printfln(
		"Server '%s' has been saved in '%s'", server.Name, cfg.Path,
	)
	return nil
}
