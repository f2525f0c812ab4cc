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

package son

import (
    `testing`

    `github.com/stretchr/testify/require`
)

func requireViolation(t *testing.T, g *Graph, reason string) {
    t.Helper()
    defer func() {
        v := recover()
        require.NotNil(t, v)
        err, ok := v.(*InvariantError)
        require.True(t, ok)
        require.Contains(t, err.Error(), reason)
    }()
    Verify(g)
}

func TestVerify_WellFormed(t *testing.T) {
    g := newTestGraph()
    c1 := g.NewNode(g.Ops.Int64Constant(1))
    c2 := g.NewNode(g.Ops.Int64Constant(2))
    m := g.NewNode(g.Ops.Merge(2), g.Start(), g.Start())
    phi := g.NewNode(g.Ops.Phi(RepWord64, 2), c1, c2, m)
    ret := g.NewNode(g.Ops.Return(1), phi, g.Start(), m)
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    require.NotPanics(t, func() { Verify(g) })
}

func TestVerify_ArityMismatch(t *testing.T) {
    g := newTestGraph()
    r1 := g.NewNode(g.Ops.Merge(1), g.Start())
    r2 := g.NewNode(g.Ops.Merge(1), g.Start())
    end := g.NewNode(g.Ops.End(2), r1, r2)
    g.SetEnd(end)

    /* trimming without retagging leaves the operator wanting two inputs */
    end.TrimInputs(1)
    requireViolation(t, g, "wants 2 inputs")
}

func TestVerify_PhiDoesNotTrackMerge(t *testing.T) {
    g := newTestGraph()
    c1 := g.NewNode(g.Ops.Int64Constant(1))
    c2 := g.NewNode(g.Ops.Int64Constant(2))
    m := g.NewNode(g.Ops.Merge(3), g.Start(), g.Start(), g.Start())
    phi := g.NewNode(g.Ops.Phi(RepWord64, 2), c1, c2, m)
    ret := g.NewNode(g.Ops.Return(1), phi, g.Start(), m)
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    requireViolation(t, g, "does not track merge")
}

func TestVerify_PhiOverNonMerge(t *testing.T) {
    g := newTestGraph()
    c1 := g.NewNode(g.Ops.Int64Constant(1))
    phi := g.NewNode(g.Ops.Phi(RepWord64, 1), c1, g.Start())
    ret := g.NewNode(g.Ops.Return(1), phi, g.Start(), g.Start())
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    requireViolation(t, g, "non-merge")
}

func TestVerify_LoopExitOverNonLoop(t *testing.T) {
    g := newTestGraph()
    m := g.NewNode(g.Ops.Merge(1), g.Start())
    lexit := g.NewNode(g.Ops.LoopExit(), g.Start(), m)
    ret := g.NewNode(g.Ops.Return(1), g.NewNode(g.Ops.Int64Constant(0)), g.Start(), lexit)
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    requireViolation(t, g, "non-loop")
}

func TestVerify_SentinelMustBeUninhabited(t *testing.T) {
    g := newTestGraph()
    dead := g.NewNode(g.Ops.Dead())
    g.SetEnd(g.NewNode(g.Ops.End(1), dead))

    /* a hand-made sentinel without the uninhabited type is malformed */
    requireViolation(t, g, "typed uninhabited")

    dead.SetType(TypeNone)
    require.NotPanics(t, func() { Verify(g) })
}

func TestVerify_PassOutputStaysWellFormed(t *testing.T) {
    g := newTestGraph()
    gr := NewGraphReducer(g)
    dce := NewDeadCodeElim(gr, g)
    gr.AddReducer(dce)

    branch := g.NewNode(g.Ops.Branch(), dce.DeadValue(), g.NewNode(g.Ops.Merge(1), g.Start()))
    ift := g.NewNode(g.Ops.IfTrue(), branch)
    iff := g.NewNode(g.Ops.IfFalse(), branch)
    m := g.NewNode(g.Ops.Merge(2), ift, iff)
    ret := g.NewNode(g.Ops.Return(1), g.NewNode(g.Ops.Int64Constant(0)), g.Start(), m)
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    require.NotPanics(t, func() { Verify(g) })
    gr.ReduceGraph()
    require.NotPanics(t, func() { Verify(g) })
}
