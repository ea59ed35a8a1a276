package config

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

const headerKeyPrefix = "header."

type RootConfig struct {
	// Used when no server is asked for explicitly
	DefaultServer string
	Servers       []Server
	Path          string
}

type Server struct {
	Name    string
	BaseURL string
	CACert  string
	// Seconds, 0 means no timeout
	Timeout int
	Headers map[string]string
}

func loadRootConfig() (*RootConfig, error) {
	rootPath, err := GetRootPath()
	if err != nil {
		return nil, err
	}
	return loadRootConfigFromPath(rootPath)
}

func loadRootConfigFromPath(path string) (*RootConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &RootConfig{Path: path}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rootCfg, err := loadRootConfigFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s': %w", path, err)
	}
	rootCfg.Path = path
	return rootCfg, nil
}

func loadRootConfigFromBytes(data []byte) (*RootConfig, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	var result RootConfig

	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			result.DefaultServer = section.Key("server").String()
			continue
		}
		server := Server{
			Name:    section.Name(),
			BaseURL: section.Key("base_url").String(),
			CACert:  section.Key("cacert").String(),
		}
		if section.HasKey("timeout") {
			server.Timeout, err = section.Key("timeout").Int()
			if err != nil {
				return nil, fmt.Errorf(
					"invalid timeout for server '%s': %w", server.Name, err,
				)
			}
		}
		for _, key := range section.Keys() {
			if !strings.HasPrefix(key.Name(), headerKeyPrefix) {
				continue
			}
			if server.Headers == nil {
				server.Headers = make(map[string]string)
			}
			server.Headers[strings.TrimPrefix(key.Name(), headerKeyPrefix)] =
				key.String()
		}
		result.Servers = append(result.Servers, server)
	}

	result.sortServers()

	return &result, nil
}

func (rootCfg *RootConfig) sortServers() {
	sort.Slice(rootCfg.Servers, func(i, j int) bool {
		left := rootCfg.Servers[i].Name
		right := rootCfg.Servers[j].Name
		return strings.Compare(left, right) == -1
	})
}

/*
Save
Write the configuration back to its path, creating the file if needed.
*/
func (rootCfg *RootConfig) Save() error {
	if rootCfg.Path == "" {
		path, err := GetRootPath()
		if err != nil {
			return err
		}
		rootCfg.Path = path
	}
	rootCfg.sortServers()
	file, err := os.OpenFile(rootCfg.Path,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		0600)
	if err != nil {
		return err
	}
	defer file.Close()
	return rootCfg.saveToWriter(file)
}

func (rootCfg *RootConfig) saveToWriter(file io.Writer) error {
	cfg := ini.Empty(ini.LoadOptions{})

	if rootCfg.DefaultServer != "" {
		_, err := cfg.Section(ini.DefaultSection).
			NewKey("server", rootCfg.DefaultServer)
		if err != nil {
			return err
		}
	}

	for _, server := range rootCfg.Servers {
		section, err := cfg.NewSection(server.Name)
		if err != nil {
			return err
		}

		if server.BaseURL != "" {
			_, err := section.NewKey("base_url", server.BaseURL)
			if err != nil {
				return err
			}
		}

		if server.CACert != "" {
			_, err := section.NewKey("cacert", server.CACert)
			if err != nil {
				return err
			}
		}

		if server.Timeout != 0 {
			_, err := section.NewKey("timeout", fmt.Sprint(server.Timeout))
			if err != nil {
				return err
			}
		}

		names := make([]string, 0, len(server.Headers))
		for name := range server.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			_, err := section.NewKey(headerKeyPrefix+name, server.Headers[name])
			if err != nil {
				return err
			}
		}
	}

	_, err := cfg.WriteTo(file)
	return err
}

/*
FindServer
Return a Server reference that matches the argument, either by name or by base
URL.
*/
func (rootCfg *RootConfig) FindServer(name string) *Server {
	for i := range rootCfg.Servers {
		// range returns copies
		server := &rootCfg.Servers[i]
		if server.Name == name {
			return server
		}
	}
	for i := range rootCfg.Servers {
		server := &rootCfg.Servers[i]
		if server.BaseURL == name {
			return server
		}
	}
	return nil
}

/*
AddServer
Add a server to the configuration, replacing one with the same name. The first
server added becomes the default one.
*/
func (rootCfg *RootConfig) AddServer(server Server) {
	if existing := rootCfg.FindServer(server.Name); existing != nil &&
		existing.Name == server.Name {
		*existing = server
	} else {
		rootCfg.Servers = append(rootCfg.Servers, server)
	}
	if rootCfg.DefaultServer == "" {
		rootCfg.DefaultServer = server.Name
	}
	rootCfg.sortServers()
}

func GetRootPath() (string, error) {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		usr, err := user.Current()
		if err != nil {
			return "", err
		}
		homeDir = usr.HomeDir
	}
	return filepath.Join(homeDir, ".rvprc"), nil
}
