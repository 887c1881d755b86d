//go:build !((linux || darwin || freebsd) && cgo)

package plugin

import "github.com/dshills/stackcalc/internal/plugin/api"

type nativeLoader struct{}

func newNativeLoader() DynamicLoader {
	return nativeLoader{}
}

func (nativeLoader) Allocate(string) (api.Plugin, error) {
	return nil, ErrUnsupportedPlatform
}

func (nativeLoader) Deallocate(api.Plugin) error {
	return api.ErrForeignPlugin
}

func (nativeLoader) Close() error {
	return nil
}
