// SPDX-License-Identifier: Apache-2.0

package httptransport

import "github.com/rloggen/rloggen/internal/pattern"

// PatternSource exposes the loaded pattern set to the API.
type PatternSource interface {
	List() []*pattern.Pattern
	Reload() error
}
