// Package manifest reads TOML files that list named jdbc urls.
//
//	[[connection]]
//	name = "orders"
//	url  = "jdbc:mysql://db:3306/orders"
package manifest

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zeebo/errs"
)

// Error is an error class for invalid manifests.
var Error = errs.Class("manifest")

// Connection is a single named url.
type Connection struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Manifest is a list of connections in file order.
type Manifest struct {
	Connections []Connection `toml:"connection"`
}

// Load opens the file at the given path and decodes it.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode reads manifest from r and validates it.
func Decode(r io.Reader) (*Manifest, error) {
	var manifest Manifest
	meta, err := toml.NewDecoder(r).Decode(&manifest)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, Error.New("unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := manifest.validate(); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// URLs returns urls in file order.
func (manifest *Manifest) URLs() []string {
	urls := make([]string, 0, len(manifest.Connections))
	for _, connection := range manifest.Connections {
		urls = append(urls, connection.URL)
	}

	return urls
}

func (manifest *Manifest) validate() error {
	if len(manifest.Connections) == 0 {
		return Error.New("no connections")
	}

	names := make(map[string]struct{}, len(manifest.Connections))
	for i, connection := range manifest.Connections {
		if strings.TrimSpace(connection.URL) == "" {
			return Error.New("connection #%d has empty url", i+1)
		}

		if connection.Name == "" {
			continue
		}
		if _, ok := names[connection.Name]; ok {
			return Error.New("duplicate connection name %q", connection.Name)
		}
		names[connection.Name] = struct{}{}
	}

	return nil
}
