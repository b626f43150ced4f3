// SPDX-License-Identifier: Apache-2.0

package adopt

import "github.com/voyago/pgadopt/pkg/catalog"

type options struct {
	// inspector used for catalog probes; defaults to one backed by the
	// adopter's own connection
	inspector catalog.Inspector
}

type Option func(*options)

// WithInspector overrides the catalog inspector used for schema probes.
func WithInspector(ins catalog.Inspector) Option {
	return func(o *options) {
		o.inspector = ins
	}
}
