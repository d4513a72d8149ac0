package plantuml

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.infratographer.com/haproxy-diagram/internal/haproxycfg"
)

const endToEndConfig = `global
    maxconn 2000

defaults
    option httplog
    timeout connect 5000

frontend web
    bind 0.0.0.0:80
    default_backend servers

backend servers
    server srv1 10.0.0.1:8080
`

const endToEndDiagram = `@startuml

class Global {
  == configs ==
  maxconn 2000
}

class Defaults {
  == options ==
  httplog
  == configs ==
  timeout connect 5000
}

package Frontends <<Folder>> {
class "web" {
  == bind ==
  host:  0.0.0.0
  port:  80
  == options ==
  == configs ==
}

}

package Backends <<Folder>> {
class "servers" {
  == options ==
  == configs ==
  == servers ==
  srv1 10.0.0.1:8080
}

}

"web" --> "servers" #line:green;line.bold;text:green : Default
@enduml
`

const threeFrontendsConfig = `frontend A
    bind :80
    default_backend a
frontend B
    bind :81
    use_backend admin if { path_beg /admin }
    default_backend b
frontend C
    bind :82
    default_backend c
backend a
backend b
backend admin
backend c
`

var (
	classRe = regexp.MustCompile(`(?m)^class ("[^"]*"|\S+) \{$`)
	edgeRe  = regexp.MustCompile(`(?m)^"([^"]*)" --> "([^"]*)" (\S+) : (.*)$`)
)

func mustParse(t *testing.T, s string) *haproxycfg.Configuration {
	t.Helper()

	cfg, err := haproxycfg.ParseString(s)
	require.NoError(t, err)

	return cfg
}

// packageBody returns the lines between "package <name> <<Folder>> {" and its closing brace
func packageBody(t *testing.T, diagram, name string) string {
	t.Helper()

	start := "package " + name + " <<Folder>> {\n"
	i := strings.Index(diagram, start)
	require.GreaterOrEqual(t, i, 0, "package %s not found", name)

	var (
		body  strings.Builder
		depth int
	)

	for _, l := range strings.Split(diagram[i+len(start):], "\n") {
		switch {
		case strings.HasPrefix(l, "class "):
			depth++
		case l == "}" && depth == 0:
			return body.String()
		case l == "}":
			depth--
		}

		body.WriteString(l + "\n")
	}

	t.Fatalf("package %s is not closed", name)

	return ""
}

func classNames(s string) []string {
	var names []string

	for _, m := range classRe.FindAllStringSubmatch(s, -1) {
		names = append(names, strings.Trim(m[1], `"`))
	}

	return names
}

func TestRenderEndToEnd(t *testing.T) {
	out, err := NewRenderer().RenderString(mustParse(t, endToEndConfig))
	require.NoError(t, err)

	assert.Equal(t, endToEndDiagram, out)
	assert.Equal(t, []string{"Global", "Defaults", "web", "servers"}, classNames(out))

	edges := edgeRe.FindAllStringSubmatch(out, -1)
	require.Len(t, edges, 1)
	assert.Equal(t, []string{"web", "servers", defaultEdgeStyle, "Default"}, edges[0][1:])
}

func TestRenderDeterministic(t *testing.T) {
	cfg := mustParse(t, threeFrontendsConfig)
	r := NewRenderer()

	first, err := r.RenderString(cfg)
	require.NoError(t, err)

	second, err := r.RenderString(cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderDirectiveOrder(t *testing.T) {
	cfg := mustParse(t, `defaults
    timeout connect 5s
    option httplog
    timeout client 30s
    option dontlognull
    timeout server 30s
    retries 3
`)

	out, err := NewRenderer().RenderString(cfg)
	require.NoError(t, err)

	assert.Contains(t, out, `class Defaults {
  == options ==
  httplog
  dontlognull
  == configs ==
  timeout connect 5s
  timeout client 30s
  timeout server 30s
  retries 3
}
`)
}

func TestRenderFrontendFilter(t *testing.T) {
	cfg := mustParse(t, threeFrontendsConfig)

	t.Run("matching filter renders one frontend", func(t *testing.T) {
		out, err := NewRenderer(WithFrontendFilter("B")).RenderString(cfg)
		require.NoError(t, err)

		assert.Equal(t, []string{"B"}, classNames(packageBody(t, out, frontendsPackage)))

		for _, e := range edgeRe.FindAllStringSubmatch(out, -1) {
			assert.Equal(t, "B", e[1])
		}

		assert.Len(t, edgeRe.FindAllStringSubmatch(out, -1), 2)
	})

	t.Run("unmatched filter falls back to all frontends", func(t *testing.T) {
		filtered, err := NewRenderer(WithFrontendFilter("Z")).RenderString(cfg)
		require.NoError(t, err)

		unfiltered, err := NewRenderer().RenderString(cfg)
		require.NoError(t, err)

		assert.Equal(t, []string{"A", "B", "C"}, classNames(packageBody(t, filtered, frontendsPackage)))
		assert.Equal(t, unfiltered, filtered)
	})
}

func TestRenderBackendFilter(t *testing.T) {
	cfg := mustParse(t, threeFrontendsConfig)

	t.Run("matching filter renders one backend and its edges", func(t *testing.T) {
		out, err := NewRenderer(WithBackendFilter("admin")).RenderString(cfg)
		require.NoError(t, err)

		assert.Equal(t, []string{"admin"}, classNames(packageBody(t, out, backendsPackage)))
		assert.Equal(t, []string{"A", "B", "C"}, classNames(packageBody(t, out, frontendsPackage)))

		edges := edgeRe.FindAllStringSubmatch(out, -1)
		require.Len(t, edges, 1)
		assert.Equal(t, []string{"B", "admin"}, edges[0][1:3])
	})

	t.Run("unmatched filter falls back to all backends", func(t *testing.T) {
		filtered, err := NewRenderer(WithBackendFilter("nope")).RenderString(cfg)
		require.NoError(t, err)

		unfiltered, err := NewRenderer().RenderString(cfg)
		require.NoError(t, err)

		assert.Equal(t, unfiltered, filtered)
	})
}

func TestRenderEdgeStyles(t *testing.T) {
	cfg := mustParse(t, `frontend web
    bind :80
    default_backend api
    use_backend admin eq path /admin
`)

	out, err := NewRenderer().RenderString(cfg)
	require.NoError(t, err)

	edges := edgeRe.FindAllStringSubmatch(out, -1)
	require.Len(t, edges, 2)

	assert.Equal(t, []string{"web", "api", defaultEdgeStyle, "Default"}, edges[0][1:])
	assert.Equal(t, []string{"web", "admin", conditionalEdgeStyle, "eq path /admin"}, edges[1][1:])
	assert.NotEqual(t, edges[0][3], edges[1][3])
}

func TestRenderEdgeOrderAndDuplicates(t *testing.T) {
	cfg := mustParse(t, `frontend b
    use_backend z if x
    use_backend z if x
    default_backend one
    default_backend two
frontend a
    use_backend y if w
`)

	out, err := NewRenderer().RenderString(cfg)
	require.NoError(t, err)

	var got [][]string
	for _, e := range edgeRe.FindAllStringSubmatch(out, -1) {
		got = append(got, e[1:3])
	}

	// frontend order then rule order, no sorting or deduplication;
	// every default rule is drawn as a default edge
	assert.Equal(t, [][]string{
		{"b", "z"},
		{"b", "z"},
		{"b", "one"},
		{"b", "two"},
		{"a", "y"},
	}, got)
	assert.Equal(t, 2, strings.Count(out, ": Default\n"))
}

func TestRenderDanglingReference(t *testing.T) {
	out, err := NewRenderer().RenderString(mustParse(t, "frontend web\n  default_backend ghost\n"))
	require.NoError(t, err)

	assert.Contains(t, out, `"web" --> "ghost" `+defaultEdgeStyle+" : Default\n")
	assert.Empty(t, classNames(packageBody(t, out, backendsPackage)))
}

func TestRenderMultipleDefaults(t *testing.T) {
	cfg := mustParse(t, `defaults
    mode http
defaults tcp
    mode tcp
defaults
    mode http
`)

	out, err := NewRenderer().RenderString(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"Global", "Defaults", "Defaults tcp", "Defaults (3)"}, classNames(out))
}

func TestRenderMultipleBinds(t *testing.T) {
	out, err := NewRenderer().RenderString(mustParse(t, "frontend web\n  bind 10.0.0.1:80\n  bind 10.0.0.2:443 ssl\n"))
	require.NoError(t, err)

	assert.Contains(t, out, `  == bind ==
  host:  10.0.0.1
  port:  80
  host:  10.0.0.2
  port:  443
  == options ==
`)
}

func TestRenderNamesAreNotEscaped(t *testing.T) {
	cfg := mustParse(t, "frontend web\\1\n  bind :80\n  default_backend api\"v2\nbackend api\"v2\n")

	out, err := NewRenderer().RenderString(cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "class \"web\\1\" {\n")
	assert.Contains(t, out, "class \"api\"v2\" {\n")
	assert.Contains(t, out, "\"web\\1\" --> \"api\"v2\" "+defaultEdgeStyle+" : Default\n")
	assert.NotContains(t, out, `\\`)
	assert.NotContains(t, out, `\"`)
}

func TestRenderBindPortRange(t *testing.T) {
	out, err := NewRenderer().RenderString(mustParse(t, "frontend web\n  bind 10.0.0.1:8000-8010,10.0.0.2:80\n"))
	require.NoError(t, err)

	assert.Contains(t, out, `  == bind ==
  host:  10.0.0.1
  port:  8000-8010
  host:  10.0.0.2
  port:  80
  == options ==
`)
}
