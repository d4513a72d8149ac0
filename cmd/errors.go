package cmd

import "errors"

var (
	// ErrHAProxyConfigRequired is returned when no haproxy config source is given
	ErrHAProxyConfigRequired = errors.New("haproxy config path (--haproxy-config) or dataplane url (--dataplane-url) is required")

	// ErrHAProxyConfigPathRequired is returned when a command needs a local haproxy config file
	ErrHAProxyConfigPathRequired = errors.New("haproxy config path (--haproxy-config) is required and cannot be empty")

	// ErrOutputFileRequired is returned when the output file name is empty
	ErrOutputFileRequired = errors.New("output file (--output) is required and cannot be empty")

	// ErrDataplaneURLRequired is returned when check_dataplane has no url to check
	ErrDataplaneURLRequired = errors.New("dataplane url (--dataplane-url) is required and cannot be empty")

	// ErrConflictingSources is returned when both a file and a dataplane url are given
	ErrConflictingSources = errors.New("--haproxy-config and --dataplane-url cannot be used together")
)
