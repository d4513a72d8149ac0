// Package haproxycfg parses HAProxy configuration text into a read-only model
package haproxycfg

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	sectionGlobal   = "global"
	sectionDefaults = "defaults"
	sectionFrontend = "frontend"
	sectionBackend  = "backend"
)

// Parser builds a Configuration from HAProxy configuration text
type Parser struct {
	logger *zap.SugaredLogger
}

// Option configures a Parser
type Option func(p *Parser)

// WithLogger sets the logger for the parser
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// NewParser returns a Parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse reads HAProxy configuration text with a default Parser
func Parse(r io.Reader) (*Configuration, error) {
	return NewParser().Parse(r)
}

// ParseString parses configuration text held in memory
func ParseString(s string) (*Configuration, error) {
	return Parse(strings.NewReader(s))
}

// cursor tracks the open section for the duration of one Parse call
type cursor struct {
	kind     string
	label    string
	defaults *Defaults
	frontend *Frontend
	backend  *Backend
}

// Parse reads r in a single pass. The first malformed line aborts parsing.
func (p *Parser) Parse(r io.Reader) (*Configuration, error) {
	cfg := &Configuration{}
	cur := cursor{}
	lex := newLexer(r)

	for {
		l, ok, err := lex.next()
		if err != nil {
			return nil, err
		}

		if !ok {
			break
		}

		if l.kind == lineSection {
			if err := cur.open(cfg, l); err != nil {
				return nil, err
			}

			continue
		}

		if err := cur.apply(cfg, l); err != nil {
			return nil, err
		}
	}

	p.logger.Debugw("parsed haproxy configuration",
		"globals", len(cfg.global.configs),
		"defaults", len(cfg.defaults),
		"frontends", len(cfg.frontends),
		"backends", len(cfg.backends),
	)

	return cfg, nil
}

// open starts a new section and appends its entity to cfg
func (c *cursor) open(cfg *Configuration, l line) error {
	*c = cursor{kind: l.keyword, label: strings.TrimSpace(l.keyword + " " + l.value)}

	switch l.keyword {
	case sectionGlobal:
	case sectionDefaults:
		c.defaults = &Defaults{name: l.value}
		cfg.defaults = append(cfg.defaults, c.defaults)
	case sectionFrontend:
		c.frontend = &Frontend{name: l.value}
		cfg.frontends = append(cfg.frontends, c.frontend)
	case sectionBackend:
		c.backend = &Backend{name: l.value}
		cfg.backends = append(cfg.backends, c.backend)
	default:
		return newParseError(l, "", ErrUnknownSection)
	}

	return nil
}

// apply appends a directive line to the open section
func (c *cursor) apply(cfg *Configuration, l line) error {
	keyword := strings.ToLower(l.keyword)

	switch c.kind {
	case sectionGlobal:
		cfg.global.configs = append(cfg.global.configs, Directive{Keyword: l.keyword, Value: l.value})
	case sectionDefaults:
		c.defaults.add(l.keyword, l.value)
	case sectionFrontend:
		switch keyword {
		case "bind":
			binds, err := parseBind(l.value)
			if err != nil {
				return newParseError(l, c.label, err)
			}

			c.frontend.binds = append(c.frontend.binds, binds...)
		case "use_backend", "use-backend":
			rule, err := parseUseBackend(l.value)
			if err != nil {
				return newParseError(l, c.label, err)
			}

			c.frontend.useBackends = append(c.frontend.useBackends, rule)
		case "default_backend":
			name, rest := cutField(l.value)
			if name == "" || rest != "" {
				return newParseError(l, c.label, ErrMalformedUseBackendLine)
			}

			c.frontend.useBackends = append(c.frontend.useBackends, UseBackendRule{BackendName: name, IsDefault: true})
		default:
			c.frontend.add(l.keyword, l.value)
		}
	case sectionBackend:
		if keyword == "server" {
			s, err := parseServer(l.value)
			if err != nil {
				return newParseError(l, c.label, err)
			}

			c.backend.servers = append(c.backend.servers, s)

			return nil
		}

		c.backend.add(l.keyword, l.value)
	default:
		// directive before any section header
		return newParseError(l, "", ErrUnknownSection)
	}

	return nil
}

// add classifies a directive as an option or a config. "option x" and
// "no option x" lines are options keyed by the option name.
func (d *directives) add(keyword, value string) {
	switch {
	case value == "":
		d.options = append(d.options, Directive{Keyword: keyword})
	case strings.EqualFold(keyword, "option"):
		name, rest := cutField(value)
		d.options = append(d.options, Directive{Keyword: name, Value: rest})
	case strings.EqualFold(keyword, "no") && strings.HasPrefix(strings.ToLower(value), "option "):
		name, rest := cutField(strings.TrimSpace(value[len("option "):]))
		d.options = append(d.options, Directive{Keyword: "no " + name, Value: rest})
	default:
		d.configs = append(d.configs, Directive{Keyword: keyword, Value: value})
	}
}

// parseBind parses "<host>:<port>[-<port>][,<host>:<port>...] [attributes...]".
// Each comma-separated address becomes its own Bind sharing the attributes.
func parseBind(value string) ([]Bind, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, ErrMalformedBindLine
	}

	attrs := trailing(fields, 1)
	addrs := strings.Split(fields[0], ",")
	binds := make([]Bind, 0, len(addrs))

	for _, addr := range addrs {
		i := strings.LastIndex(addr, ":")
		if i < 0 {
			return nil, ErrMalformedBindLine
		}

		port, end, err := parsePortRange(addr[i+1:])
		if err != nil {
			return nil, err
		}

		binds = append(binds, Bind{
			Host:       addr[:i],
			Port:       port,
			PortEnd:    end,
			Attributes: slices.Clone(attrs),
		})
	}

	return binds, nil
}

// parsePortRange parses "<port>" or "<first>-<last>". end is 0 for a single port.
func parsePortRange(s string) (int, int, error) {
	first, last, isRange := strings.Cut(s, "-")

	port, err := strconv.Atoi(first)
	if err != nil || port < 0 {
		return 0, 0, ErrMalformedBindLine
	}

	if !isRange {
		return port, 0, nil
	}

	end, err := strconv.Atoi(last)
	if err != nil || end < port {
		return 0, 0, ErrMalformedBindLine
	}

	return port, end, nil
}

// parseServer parses "<name> <host>[:<port>] [attributes...]"
func parseServer(value string) (Server, error) {
	fields := strings.Fields(value)
	if len(fields) < 2 {
		return Server{}, ErrMalformedServerLine
	}

	s := Server{
		Name:       fields[0],
		Host:       fields[1],
		Attributes: trailing(fields, 2),
	}

	if i := strings.LastIndex(fields[1], ":"); i >= 0 {
		port, err := strconv.Atoi(fields[1][i+1:])
		if err != nil || port < 0 {
			return Server{}, ErrMalformedServerLine
		}

		s.Host = fields[1][:i]
		s.Port = port
	}

	return s, nil
}

// parseUseBackend parses "<backend>" (default route) or "<backend> <operator> <condition...>"
func parseUseBackend(value string) (UseBackendRule, error) {
	name, rest := cutField(value)
	if name == "" {
		return UseBackendRule{}, ErrMalformedUseBackendLine
	}

	if rest == "" {
		return UseBackendRule{BackendName: name, IsDefault: true}, nil
	}

	op, cond := cutField(rest)
	if cond == "" {
		return UseBackendRule{}, ErrMalformedUseBackendLine
	}

	return UseBackendRule{
		BackendName:      name,
		Operator:         op,
		BackendCondition: cond,
	}, nil
}

// trailing returns fields[from:], or nil when there is nothing left
func trailing(fields []string, from int) []string {
	if len(fields) <= from {
		return nil
	}

	return fields[from:]
}
