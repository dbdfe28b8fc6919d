package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed catalog.yaml
var builtinData []byte

// Builtin returns the embedded policy-service catalog.
// The embedded data is validated at startup like any external file; a broken
// build is surfaced immediately rather than on first lookup.
func Builtin() (*Catalog, error) {
	c, err := Parse(builtinData)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog is invalid: %w", err)
	}
	return c, nil
}

// MustBuiltin is Builtin for wiring paths where the embedded data has
// already been exercised by tests.
func MustBuiltin() *Catalog {
	c, err := Builtin()
	if err != nil {
		panic(err)
	}
	return c
}
