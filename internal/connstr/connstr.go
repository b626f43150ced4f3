// SPDX-License-Identifier: Apache-2.0

package connstr

import (
	"fmt"
	"net/url"
)

// DefaultConnectTimeout bounds the initial connection attempt so that an
// unreachable database fails a deploy pipeline instead of hanging it.
const DefaultConnectTimeout = 10 // seconds

// WithConnectTimeout takes a Postgres connection string in URL format and
// produces the same connection string with the connect_timeout option set,
// unless the caller already supplied one.
func WithConnectTimeout(connStr string) (string, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse connection string: %w", err)
	}

	q := u.Query()
	if q.Get("connect_timeout") == "" {
		q.Set("connect_timeout", fmt.Sprintf("%d", DefaultConnectTimeout))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
