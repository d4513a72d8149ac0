// Package plantuml renders a parsed HAProxy configuration as a PlantUML class diagram
package plantuml

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"go.infratographer.com/haproxy-diagram/internal/haproxycfg"
)

const (
	diagramStart = "@startuml"
	diagramEnd   = "@enduml"

	frontendsPackage = "Frontends"
	backendsPackage  = "Backends"

	defaultEdgeStyle     = "#line:green;line.bold;text:green"
	conditionalEdgeStyle = "#line.dashed"
	defaultEdgeLabel     = "Default"
)

// Renderer writes diagram text for a Configuration. The output depends only on
// the configuration and the filters, so equal inputs give byte-identical output.
type Renderer struct {
	frontendFilter string
	backendFilter  string
	logger         *zap.SugaredLogger
}

// Option configures a Renderer
type Option func(r *Renderer)

// WithLogger sets the logger for the renderer
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithFrontendFilter limits the diagram to one frontend and its edges.
// A name that matches no frontend renders every frontend.
func WithFrontendFilter(name string) Option {
	return func(r *Renderer) {
		r.frontendFilter = name
	}
}

// WithBackendFilter limits the diagram to one backend and the edges that target it.
// A name that matches no backend renders every backend.
func WithBackendFilter(name string) Option {
	return func(r *Renderer) {
		r.backendFilter = name
	}
}

// NewRenderer returns a Renderer
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		logger: zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RenderString returns the diagram as a string
func (r *Renderer) RenderString(cfg *haproxycfg.Configuration) (string, error) {
	var sb strings.Builder

	if err := r.Render(&sb, cfg); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Render writes the diagram to w
func (r *Renderer) Render(w io.Writer, cfg *haproxycfg.Configuration) error {
	frontends := r.frontends(cfg)
	backends, backendFiltered := r.backends(cfg)

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n\n", diagramStart)

	writeGlobal(bw, cfg.Global())

	for _, label := range defaultsLabels(cfg.Defaults()) {
		writeDefaults(bw, label.name, label.defaults)
	}

	fmt.Fprintf(bw, "package %s <<Folder>> {\n", frontendsPackage)

	for _, fe := range frontends {
		writeFrontend(bw, fe)
	}

	fmt.Fprint(bw, "}\n\n")

	fmt.Fprintf(bw, "package %s <<Folder>> {\n", backendsPackage)

	for _, be := range backends {
		writeBackend(bw, be)
	}

	fmt.Fprint(bw, "}\n\n")

	for _, fe := range frontends {
		for _, rule := range fe.UseBackends() {
			if backendFiltered && rule.BackendName != r.backendFilter {
				continue
			}

			writeEdge(bw, fe.Name(), rule)
		}
	}

	fmt.Fprintf(bw, "%s\n", diagramEnd)

	return bw.Flush()
}

func (r *Renderer) frontends(cfg *haproxycfg.Configuration) []*haproxycfg.Frontend {
	if r.frontendFilter == "" {
		return cfg.Frontends()
	}

	if fe, ok := cfg.Frontend(r.frontendFilter); ok {
		return []*haproxycfg.Frontend{fe}
	}

	r.logger.Debugw("frontend filter matched nothing, rendering all frontends", "frontend", r.frontendFilter)

	return cfg.Frontends()
}

func (r *Renderer) backends(cfg *haproxycfg.Configuration) ([]*haproxycfg.Backend, bool) {
	if r.backendFilter == "" {
		return cfg.Backends(), false
	}

	if be, ok := cfg.Backend(r.backendFilter); ok {
		return []*haproxycfg.Backend{be}, true
	}

	r.logger.Debugw("backend filter matched nothing, rendering all backends", "backend", r.backendFilter)

	return cfg.Backends(), false
}

func writeGlobal(w io.Writer, g *haproxycfg.Global) {
	fmt.Fprint(w, "class Global {\n")
	writeDirectives(w, "configs", g.Configs())
	fmt.Fprint(w, "}\n\n")
}

func writeDefaults(w io.Writer, label string, d *haproxycfg.Defaults) {
	fmt.Fprintf(w, "class %s {\n", className(label))
	writeDirectives(w, "options", d.Options())
	writeDirectives(w, "configs", d.Configs())
	fmt.Fprint(w, "}\n\n")
}

func writeFrontend(w io.Writer, fe *haproxycfg.Frontend) {
	fmt.Fprintf(w, "class %s {\n", quote(fe.Name()))
	writeHeading(w, "bind")

	for _, b := range fe.Binds() {
		fmt.Fprintf(w, "  host:  %s\n", b.Host)
		fmt.Fprintf(w, "  port:  %s\n", b.Ports())
	}

	writeDirectives(w, "options", fe.Options())
	writeDirectives(w, "configs", fe.Configs())
	fmt.Fprint(w, "}\n\n")
}

func writeBackend(w io.Writer, be *haproxycfg.Backend) {
	fmt.Fprintf(w, "class %s {\n", quote(be.Name()))
	writeDirectives(w, "options", be.Options())
	writeDirectives(w, "configs", be.Configs())
	writeHeading(w, "servers")

	for _, s := range be.Servers() {
		fmt.Fprintf(w, "  %s %s\n", s.Name, s.Address())
	}

	fmt.Fprint(w, "}\n\n")
}

func writeEdge(w io.Writer, frontend string, rule haproxycfg.UseBackendRule) {
	if rule.IsDefault {
		fmt.Fprintf(w, "%s --> %s %s : %s\n", quote(frontend), quote(rule.BackendName), defaultEdgeStyle, defaultEdgeLabel)
		return
	}

	fmt.Fprintf(w, "%s --> %s %s : %s %s\n", quote(frontend), quote(rule.BackendName), conditionalEdgeStyle, rule.Operator, rule.BackendCondition)
}

func writeHeading(w io.Writer, heading string) {
	fmt.Fprintf(w, "  == %s ==\n", heading)
}

func writeDirectives(w io.Writer, heading string, directives []haproxycfg.Directive) {
	writeHeading(w, heading)

	for _, d := range directives {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// className leaves plain identifiers bare and quotes everything else
func className(name string) string {
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return quote(name)
		}
	}

	return name
}

// quote wraps name in double quotes as is. PlantUML takes the text between
// the quotes literally, so no escaping is applied.
func quote(name string) string {
	return `"` + name + `"`
}

type defaultsLabel struct {
	name     string
	defaults *haproxycfg.Defaults
}

// defaultsLabels names each defaults block: "Defaults" when anonymous,
// "Defaults <name>" otherwise, with " (n)" appended to repeats
func defaultsLabels(defaults []*haproxycfg.Defaults) []defaultsLabel {
	labels := make([]defaultsLabel, 0, len(defaults))
	seen := map[string]bool{}

	for i, d := range defaults {
		name := strings.TrimSpace("Defaults " + d.Name())
		if seen[name] {
			name = fmt.Sprintf("%s (%d)", name, i+1)
		}

		seen[name] = true

		labels = append(labels, defaultsLabel{name: name, defaults: d})
	}

	return labels
}
