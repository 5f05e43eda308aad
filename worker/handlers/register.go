package handlers

import (
	"fmt"
	"net/url"
	"sort"

	"git.sr.ht/~hrtools/hrreject/worker/types"
)

// Options are the account settings a backend is built from.
type Options struct {
	Source         *url.URL
	PageSize       int
	FoldersExclude []string
}

type FactoryFunc func(opts *Options) (types.Backend, error)

var backendFactories = make(map[string]FactoryFunc)

func RegisterBackendFactory(scheme string, factory FactoryFunc) {
	backendFactories[scheme] = factory
}

func GetHandlerForScheme(scheme string, opts *Options) (types.Backend, error) {
	factory, ok := backendFactories[scheme]
	if !ok {
		return nil, fmt.Errorf("unknown backend %s", scheme)
	}
	backend, err := factory(opts)
	if err != nil {
		return nil, err
	}
	return backend, nil
}

// Schemes lists the registered backend schemes.
func Schemes() []string {
	var schemes []string
	for s := range backendFactories {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}
