package haproxycfg

// Frontend returns the frontend with the exact (case-sensitive) name
func (c *Configuration) Frontend(name string) (*Frontend, bool) {
	for _, f := range c.frontends {
		if f.name == name {
			return f, true
		}
	}

	return nil, false
}

// Backend returns the backend with the exact (case-sensitive) name
func (c *Configuration) Backend(name string) (*Backend, bool) {
	for _, b := range c.backends {
		if b.name == name {
			return b, true
		}
	}

	return nil, false
}

type sectionView struct {
	Name        string           `yaml:"name,omitempty"`
	Binds       []Bind           `yaml:"binds,omitempty"`
	Options     []Directive      `yaml:"options,omitempty"`
	Configs     []Directive      `yaml:"configs,omitempty"`
	Servers     []Server         `yaml:"servers,omitempty"`
	UseBackends []UseBackendRule `yaml:"use_backends,omitempty"`
}

type configurationView struct {
	Global    sectionView   `yaml:"global"`
	Defaults  []sectionView `yaml:"defaults,omitempty"`
	Frontends []sectionView `yaml:"frontends,omitempty"`
	Backends  []sectionView `yaml:"backends,omitempty"`
}

// MarshalYAML implements yaml.Marshaler so the read-only model can be dumped
func (c *Configuration) MarshalYAML() (interface{}, error) {
	v := configurationView{
		Global: sectionView{Configs: c.global.configs},
	}

	for _, d := range c.defaults {
		v.Defaults = append(v.Defaults, sectionView{
			Name:    d.name,
			Options: d.options,
			Configs: d.configs,
		})
	}

	for _, f := range c.frontends {
		v.Frontends = append(v.Frontends, sectionView{
			Name:        f.name,
			Binds:       f.binds,
			Options:     f.options,
			Configs:     f.configs,
			UseBackends: f.useBackends,
		})
	}

	for _, b := range c.backends {
		v.Backends = append(v.Backends, sectionView{
			Name:    b.name,
			Options: b.options,
			Configs: b.configs,
			Servers: b.servers,
		})
	}

	return v, nil
}
