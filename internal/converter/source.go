package converter

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
)

// Source supplies haproxy configuration text
type Source interface {
	Load(ctx context.Context) (io.Reader, error)
	String() string
}

type dataPlaneAPI interface {
	GetRawConfig(ctx context.Context) (string, error)
}

// FileSource reads the configuration from a local file
type FileSource struct {
	Path string
}

// Load reads the whole file. A missing or unreadable file is ErrConfigFileNotFound.
func (s FileSource) Load(_ context.Context) (io.Reader, error) {
	contents, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, newPathError(s.Path, ErrConfigFileNotFound, err)
	}

	return bytes.NewReader(contents), nil
}

func (s FileSource) String() string {
	return "file " + s.Path
}

// DataplaneSource reads the configuration haproxy is running through the Data Plane API
type DataplaneSource struct {
	Client dataPlaneAPI
	URL    string
}

// Load fetches the raw running configuration
func (s DataplaneSource) Load(ctx context.Context) (io.Reader, error) {
	cfg, err := s.Client.GetRawConfig(ctx)
	if err != nil {
		return nil, newAttrError(errDataplaneFetch, err)
	}

	return strings.NewReader(cfg), nil
}

func (s DataplaneSource) String() string {
	return "dataplaneapi " + s.URL
}
