package converter

import (
	"errors"
	"fmt"
	"slices"

	parser "github.com/haproxytech/config-parser/v4"
	cperrors "github.com/haproxytech/config-parser/v4/errors"
	"github.com/haproxytech/config-parser/v4/options"

	"go.infratographer.com/haproxy-diagram/internal/haproxycfg"
)

// CrossCheck parses path with the haproxytech reference parser and compares
// its frontend and backend names with cfg
func CrossCheck(path string, cfg *haproxycfg.Configuration) error {
	ref, err := parser.New(options.Path(path), options.NoNamedDefaultsFrom)
	if err != nil {
		return newPathError(path, ErrReferenceParse, err)
	}

	var frontends, backends []string

	for _, f := range cfg.Frontends() {
		frontends = append(frontends, f.Name())
	}

	for _, b := range cfg.Backends() {
		backends = append(backends, b.Name())
	}

	var errs []error

	for _, s := range []struct {
		section parser.Section
		names   []string
	}{
		{parser.Frontends, frontends},
		{parser.Backends, backends},
	} {
		refNames, err := ref.SectionsGet(s.section)
		if err != nil && !errors.Is(err, cperrors.ErrSectionMissing) {
			return newPathError(path, ErrReferenceParse, err)
		}

		if err := compareNames(string(s.section), s.names, refNames); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// compareNames reports names present in only one of the two lists, ignoring order
func compareNames(section string, ours, reference []string) error {
	var onlyOurs, onlyReference []string

	for _, n := range ours {
		if !slices.Contains(reference, n) {
			onlyOurs = append(onlyOurs, n)
		}
	}

	for _, n := range reference {
		if !slices.Contains(ours, n) {
			onlyReference = append(onlyReference, n)
		}
	}

	if len(onlyOurs) == 0 && len(onlyReference) == 0 {
		return nil
	}

	slices.Sort(onlyReference)

	return fmt.Errorf("%w: %s: only here %v, only in reference %v", ErrCrossCheckMismatch, section, onlyOurs, onlyReference)
}
