package converter

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigFileNotFound is returned when the haproxy config file is missing or unreadable
	ErrConfigFileNotFound = errors.New("haproxy config file not found")

	// ErrSourceRequired is returned when the converter has no configuration source
	ErrSourceRequired = errors.New("a configuration source is required")

	// errDataplaneFetch is returned when the running config cannot be read from dataplaneapi
	errDataplaneFetch = errors.New("failed to fetch config from dataplaneapi")

	// errWriteOutput is returned when the diagram cannot be written
	errWriteOutput = errors.New("failed to write diagram")

	// ErrReferenceParse is returned when the reference parser rejects the config
	ErrReferenceParse = errors.New("reference parser rejected haproxy config")

	// ErrCrossCheckMismatch is returned when both parsers disagree on section names
	ErrCrossCheckMismatch = errors.New("section names differ from reference parser")
)

func newPathError(path string, err error, pathErr error) error {
	return fmt.Errorf("%w %q: %v", err, path, pathErr)
}

func newAttrError(err error, attrErr error) error {
	return fmt.Errorf("%w: %v", err, attrErr)
}
