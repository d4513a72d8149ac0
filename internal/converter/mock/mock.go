// Package mock provides func-field test doubles for the converter collaborators
package mock

import (
	"context"
	"io"
)

// DataplaneAPIClient mock client
type DataplaneAPIClient struct {
	DoGetRawConfig func(ctx context.Context) (string, error)
}

// GetRawConfig calls DoGetRawConfig
func (c *DataplaneAPIClient) GetRawConfig(ctx context.Context) (string, error) {
	return c.DoGetRawConfig(ctx)
}

// Source mock configuration source
type Source struct {
	DoLoad func(ctx context.Context) (io.Reader, error)
	Name   string
}

// Load calls DoLoad
func (s *Source) Load(ctx context.Context) (io.Reader, error) {
	return s.DoLoad(ctx)
}

func (s *Source) String() string {
	return s.Name
}
