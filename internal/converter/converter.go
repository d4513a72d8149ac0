// Package converter drives the haproxy config to diagram pipeline
package converter

import (
	"context"
	"os"

	"go.uber.org/zap"

	"go.infratographer.com/haproxy-diagram/internal/haproxycfg"
	"go.infratographer.com/haproxy-diagram/internal/plantuml"
)

const outputFileMode = 0o644

// Converter contains the pipeline configuration
type Converter struct {
	Logger         *zap.SugaredLogger
	Source         Source
	FrontendFilter string
	BackendFilter  string
}

func (c *Converter) logger() *zap.SugaredLogger {
	if c.Logger == nil {
		return zap.NewNop().Sugar()
	}

	return c.Logger
}

// Parse loads the source and parses it
func (c *Converter) Parse(ctx context.Context) (*haproxycfg.Configuration, error) {
	if c.Source == nil {
		return nil, ErrSourceRequired
	}

	r, err := c.Source.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger().Debugw("parsing haproxy config", "source", c.Source.String())

	cfg, err := haproxycfg.NewParser(haproxycfg.WithLogger(c.logger())).Parse(r)
	if err != nil {
		c.logger().Errorw("failed to parse haproxy config", "source", c.Source.String(), zap.Error(err))
		return nil, err
	}

	return cfg, nil
}

// Convert runs load -> parse -> render and returns the diagram text.
// Any failure aborts the run; there is no partial output.
func (c *Converter) Convert(ctx context.Context) (string, error) {
	cfg, err := c.Parse(ctx)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	renderer := plantuml.NewRenderer(
		plantuml.WithLogger(c.logger()),
		plantuml.WithFrontendFilter(c.FrontendFilter),
		plantuml.WithBackendFilter(c.BackendFilter),
	)

	diagram, err := renderer.RenderString(cfg)
	if err != nil {
		return "", err
	}

	c.logger().Infow("rendered diagram",
		"source", c.Source.String(),
		"frontends", len(cfg.Frontends()),
		"backends", len(cfg.Backends()),
	)

	return diagram, nil
}

// ConvertTo converts and writes the diagram to path. Nothing is written when conversion fails.
func (c *Converter) ConvertTo(ctx context.Context, path string) (string, error) {
	diagram, err := c.Convert(ctx)
	if err != nil {
		return "", err
	}

	if err := WriteOutput(path, diagram); err != nil {
		return "", err
	}

	c.logger().Infow("diagram written", "file", path)

	return diagram, nil
}

// WriteOutput writes the diagram to path
func WriteOutput(path, diagram string) error {
	if err := os.WriteFile(path, []byte(diagram), outputFileMode); err != nil {
		return newPathError(path, errWriteOutput, err)
	}

	return nil
}
