// SPDX-License-Identifier: Apache-2.0

package cmd

import "errors"

var errMissingPGURL = errors.New("no Postgres URL configured, set PGADOPT_PG_URL or pass --postgres-url")
