package haproxycfg

import (
	"slices"
	"strconv"
)

// Directive is a single keyword line inside a section
type Directive struct {
	Keyword string `yaml:"keyword"`
	Value   string `yaml:"value,omitempty"`
}

// String returns the directive as "keyword value", without a trailing space for options
func (d Directive) String() string {
	if d.Value == "" {
		return d.Keyword
	}

	return d.Keyword + " " + d.Value
}

// Bind is a frontend listen address. PortEnd is set when the bind covers a port range.
type Bind struct {
	Host       string   `yaml:"host"`
	Port       int      `yaml:"port"`
	PortEnd    int      `yaml:"port_end,omitempty"`
	Attributes []string `yaml:"attributes,omitempty"`
}

// Ports returns the port, or "first-last" for a range
func (b Bind) Ports() string {
	if b.PortEnd == 0 {
		return strconv.Itoa(b.Port)
	}

	return strconv.Itoa(b.Port) + "-" + strconv.Itoa(b.PortEnd)
}

// Server is a backend server line
type Server struct {
	Name       string   `yaml:"name"`
	Host       string   `yaml:"host"`
	Port       int      `yaml:"port,omitempty"`
	Attributes []string `yaml:"attributes,omitempty"`
}

// Address returns host:port, or the bare host when no port was given
func (s Server) Address() string {
	if s.Port == 0 {
		return s.Host
	}

	return s.Host + ":" + strconv.Itoa(s.Port)
}

// UseBackendRule routes traffic from a frontend to a backend
type UseBackendRule struct {
	BackendName      string `yaml:"backend"`
	IsDefault        bool   `yaml:"default"`
	Operator         string `yaml:"operator,omitempty"`
	BackendCondition string `yaml:"condition,omitempty"`
}

// directives holds the two ordered directive lists shared by sections
type directives struct {
	options []Directive
	configs []Directive
}

// Options returns the valueless directives in source order
func (d *directives) Options() []Directive {
	return slices.Clone(d.options)
}

// Configs returns the valued directives in source order
func (d *directives) Configs() []Directive {
	return slices.Clone(d.configs)
}

// Global is the global section. It carries configs only.
type Global struct {
	configs []Directive
}

// Configs returns the global directives in source order
func (g *Global) Configs() []Directive {
	return slices.Clone(g.configs)
}

// Defaults is a defaults section, named or anonymous
type Defaults struct {
	directives
	name string
}

// Name returns the section label, empty for an anonymous defaults block
func (d *Defaults) Name() string {
	return d.name
}

// Frontend is a named entry point with bind addresses and routing rules
type Frontend struct {
	directives
	name        string
	binds       []Bind
	useBackends []UseBackendRule
}

// Name returns the frontend name
func (f *Frontend) Name() string {
	return f.name
}

// Binds returns every bind address in source order
func (f *Frontend) Binds() []Bind {
	return slices.Clone(f.binds)
}

// Host returns the host of the first bind, or an empty string
func (f *Frontend) Host() string {
	if len(f.binds) == 0 {
		return ""
	}

	return f.binds[0].Host
}

// Port returns the port of the first bind, or zero
func (f *Frontend) Port() int {
	if len(f.binds) == 0 {
		return 0
	}

	return f.binds[0].Port
}

// UseBackends returns the routing rules in source order
func (f *Frontend) UseBackends() []UseBackendRule {
	return slices.Clone(f.useBackends)
}

// DefaultBackend returns the last default rule, if any
func (f *Frontend) DefaultBackend() (UseBackendRule, bool) {
	for i := len(f.useBackends) - 1; i >= 0; i-- {
		if f.useBackends[i].IsDefault {
			return f.useBackends[i], true
		}
	}

	return UseBackendRule{}, false
}

// Backend is a named server pool
type Backend struct {
	directives
	name    string
	servers []Server
}

// Name returns the backend name
func (b *Backend) Name() string {
	return b.name
}

// Servers returns the servers in source order
func (b *Backend) Servers() []Server {
	return slices.Clone(b.servers)
}

// Configuration is the parsed root. It is not modified after Parse returns.
type Configuration struct {
	global    Global
	defaults  []*Defaults
	frontends []*Frontend
	backends  []*Backend
}

// Global returns the global section
func (c *Configuration) Global() *Global {
	return &c.global
}

// Defaults returns every defaults section in source order
func (c *Configuration) Defaults() []*Defaults {
	return slices.Clone(c.defaults)
}

// Frontends returns every frontend in source order
func (c *Configuration) Frontends() []*Frontend {
	return slices.Clone(c.frontends)
}

// Backends returns every backend in source order
func (c *Configuration) Backends() []*Backend {
	return slices.Clone(c.backends)
}
