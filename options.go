/*
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package turbine

import (
	"fmt"
)

// Options configure a single Optimize run.
type Options struct {
	Verify        bool
	MaxReductions int
}

// Option is the property setter function for Options.
type Option func(*Options)

func newOptions(options ...Option) (o Options) {
	o.Verify = true
	for _, fn := range options {
		fn(&o)
	}
	return
}

// WithVerification toggles structural graph verification before and after
// the reduction pipeline.
//
// Verification is enabled by default: a malformed graph must abort
// compilation loudly rather than flow into later phases. Disable it only
// when the surrounding driver already verifies between passes.
func WithVerification(v bool) Option {
	return func(o *Options) { o.Verify = v }
}

// WithMaxReductions caps the number of per-node reduction rounds of one
// Optimize run.
//
// A misbehaving reducer that keeps requeueing work would otherwise hang the
// compilation; with a cap the run panics once the budget is exhausted.
//
// The default value "0" means no cap.
func WithMaxReductions(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("turbine: invalid reduction cap: %d", n))
	} else {
		return func(o *Options) { o.MaxReductions = n }
	}
}
