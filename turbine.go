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

// Package turbine drives reduction pipelines over sea-of-nodes graphs.
package turbine

import (
	"github.com/turbine-ir/turbine/son"
)

// ReducerDescriptor names a reducer and knows how to construct it against a
// graph and the editor of the driver it will run under.
type ReducerDescriptor struct {
	Name string
	New  func(ed son.Editor, g *son.Graph) son.Reducer
}

// Reducers is the standard reduction pipeline, applied in order to every
// node until the whole graph reaches a fixpoint.
var Reducers = [...]ReducerDescriptor{
	{Name: "Dead Code Elimination", New: newDeadCodeElim},
}

func newDeadCodeElim(ed son.Editor, g *son.Graph) son.Reducer {
	return son.NewDeadCodeElim(ed, g)
}

// Optimize runs the standard reduction pipeline over g until fixpoint. The
// graph is mutated in place; reduction never roots new control flow, it only
// prunes and collapses what earlier analysis proved dead.
func Optimize(g *son.Graph, options ...Option) {
	opt := newOptions(options...)

	/* reject malformed input before touching it */
	if opt.Verify {
		son.Verify(g)
	}

	/* assemble the driver with the standard pipeline */
	gr := son.NewGraphReducer(g)
	gr.SetLimit(opt.MaxReductions)
	for _, d := range Reducers {
		gr.AddReducer(d.New(gr, g))
	}

	/* run to fixpoint, then re-check what we produced */
	gr.ReduceGraph()
	if opt.Verify {
		son.Verify(g)
	}
}
