/*
Package config
Configuration of the servers rvp can talk to.

Servers live in an INI file, by default '~/.rvprc':

    server = production

    [production]
    base_url = https://example.com/api
    cacert = /etc/ssl/example.pem
    timeout = 30
    header.X-Tenant = acme

Usage:

    import "github.com/xlate/jsonapi-rvp/internal/rvplib/config"

    cfg, err := config.Load("")  // Loads from the default path
    if err != nil { ... }

    server, err := cfg.ActiveServer("", "")  // The default server
    if err != nil { ... }

    cfg.AddServer(config.Server{Name: "local", BaseURL: "http://localhost"})
    cfg.Save()  // Saves changes to disk
*/
package config

import (
	"errors"
	"fmt"
)

/*
Load the root configuration from 'path', or from the default path if 'path'
is empty. A missing file results in an empty configuration.
*/
func Load(path string) (*RootConfig, error) {
	if path == "" {
		return loadRootConfig()
	}
	return loadRootConfigFromPath(path)
}

/*
ActiveServer
Return the server that commands should talk to.

'name' selects a server by name (falling back to the configured default, or
to the only server if there is just one). A non-empty 'baseURL' overrides
whatever the configuration says, and is enough on its own.
*/
func (rootCfg *RootConfig) ActiveServer(name, baseURL string) (Server, error) {
	if name == "" {
		name = rootCfg.DefaultServer
	}
	if name == "" && len(rootCfg.Servers) == 1 {
		name = rootCfg.Servers[0].Name
	}

	var result Server
	if name != "" {
		server := rootCfg.FindServer(name)
		if server == nil && baseURL == "" {
			return result, fmt.Errorf(
				"server '%s' not found in '%s'", name, rootCfg.Path,
			)
		}
		if server != nil {
			result = *server
		}
	}

	if baseURL != "" {
		result.BaseURL = baseURL
	}
	if result.BaseURL == "" {
		return result, errors.New(
			"no base URL, use the --base-url flag or add a server with " +
				"'rvp config add'",
		)
	}
	return result, nil
}
