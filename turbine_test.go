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
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/turbine-ir/turbine/son"
)

func TestOptimize_DeadReturnBecomesThrow(t *testing.T) {
	g := son.NewGraph()
	g.SetStart(g.NewNode(g.Ops.Start()))

	cond := g.NewNode(g.Ops.Parameter(0))
	branch := g.NewNode(g.Ops.Branch(), cond, g.Start())
	ift := g.NewNode(g.Ops.IfTrue(), branch)
	iff := g.NewNode(g.Ops.IfFalse(), branch)

	v1 := g.NewNode(g.Ops.Int64Constant(1))
	ret1 := g.NewNode(g.Ops.Return(1), v1, g.Start(), ift)

	// the other arm returns a value proven impossible upstream
	v2 := g.NewNode(g.Ops.Parameter(1))
	v2.SetType(son.TypeNone)
	ret2 := g.NewNode(g.Ops.Return(1), v2, g.Start(), iff)

	end := g.NewNode(g.Ops.End(2), ret1, ret2)
	g.SetEnd(end)

	Optimize(g)

	// the live arm is untouched, the impossible one turned into a trap
	require.Equal(t, son.OpReturn, end.InputAt(0).Opcode())
	require.Equal(t, son.OpThrow, end.InputAt(1).Opcode())
	require.Equal(t, son.OpUnreachable, end.InputAt(1).EffectInput(0).Opcode())
	require.Same(t, iff, end.InputAt(1).ControlInput(0))
}

func TestOptimize_DeadMergeArmCollapses(t *testing.T) {
	g := son.NewGraph()
	g.SetStart(g.NewNode(g.Ops.Start()))

	c1 := g.NewNode(g.Ops.Merge(1), g.Start())
	dead := g.NewNode(g.Ops.Dead())
	dead.SetType(son.TypeNone)

	v0 := g.NewNode(g.Ops.Int64Constant(1))
	v1 := g.NewNode(g.Ops.Int64Constant(2))
	m := g.NewNode(g.Ops.Merge(2), c1, dead)
	phi := g.NewNode(g.Ops.Phi(son.RepWord64, 2), v0, v1, m)
	ret := g.NewNode(g.Ops.Return(1), phi, g.Start(), m)
	g.SetEnd(g.NewNode(g.Ops.End(1), ret))

	Optimize(g)

	// the dead arm is pruned, the phi picks its corresponding value, and
	// the collapse cascades: the surviving single-entry merge folds into
	// Start as well
	require.Same(t, v0, ret.ValueInput(0))
	require.Same(t, g.Start(), ret.ControlInput(0))
	require.True(t, phi.IsDead())
	require.True(t, m.IsDead())
	require.True(t, c1.IsDead())
}

func TestOptimize_Options(t *testing.T) {
	g := son.NewGraph()
	g.SetStart(g.NewNode(g.Ops.Start()))
	ret := g.NewNode(g.Ops.Return(1), g.NewNode(g.Ops.Int64Constant(0)), g.Start(), g.Start())
	end := g.NewNode(g.Ops.End(1), ret)
	g.SetEnd(end)

	// a malformed graph is rejected up front unless verification is off
	end.TrimInputs(0)
	require.Panics(t, func() { Optimize(g) })

	require.Panics(t, func() { WithMaxReductions(-1) })

	// an absurdly low cap trips on any non-trivial graph
	g2 := son.NewGraph()
	g2.SetStart(g2.NewNode(g2.Ops.Start()))
	ret2 := g2.NewNode(g2.Ops.Return(1), g2.NewNode(g2.Ops.Int64Constant(0)), g2.Start(), g2.Start())
	g2.SetEnd(g2.NewNode(g2.Ops.End(1), ret2))
	require.Panics(t, func() { Optimize(g2, WithMaxReductions(1)) })
	require.NotPanics(t, func() { Optimize(g2, WithMaxReductions(1000)) })
}

func TestOptimize_Idempotent(t *testing.T) {
	g := son.NewGraph()
	g.SetStart(g.NewNode(g.Ops.Start()))

	v := g.NewNode(g.Ops.Parameter(0))
	v.SetType(son.TypeNone)
	add := g.NewNode(g.Ops.Add(), v, g.NewNode(g.Ops.Int64Constant(3)))
	ret := g.NewNode(g.Ops.Return(1), add, g.Start(), g.Start())
	end := g.NewNode(g.Ops.End(1), ret)
	g.SetEnd(end)

	Optimize(g)
	throw := end.InputAt(0)
	require.Equal(t, son.OpThrow, throw.Opcode())

	// the second run finds nothing left to do
	Optimize(g)
	require.Same(t, throw, end.InputAt(0))
	require.Equal(t, son.OpThrow, throw.Opcode())
}
