// Package config provides a struct to store the application's configuration
package config

import (
	"go.infratographer.com/x/loggingx"
)

// DataplaneConfig stores the Data Plane API connection settings
type DataplaneConfig struct {
	URL  string
	User struct {
		Name string
		Pwd  string
	}
}

// FilterConfig stores the optional frontend and backend name filters
type FilterConfig struct {
	Frontend string
	Backend  string
}

// OutputConfig stores where the rendered diagram is written
type OutputConfig struct {
	File string
}

// AppConfig is populated by viper.Unmarshal during cobra initialization
var AppConfig struct {
	Logging   loggingx.Config
	Dataplane DataplaneConfig
	Filter    FilterConfig
	Output    OutputConfig
}
