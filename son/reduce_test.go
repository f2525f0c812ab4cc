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

/* _TestFold folds additions over constant operands */
type _TestFold struct {
    g *Graph
}

func (self *_TestFold) Reduce(node *Node) Reduction {
    if node.Opcode() != OpAdd {
        return NoChange()
    }
    lhs := node.ValueInput(0)
    rhs := node.ValueInput(1)
    if lhs.Opcode() != OpInt64Constant || rhs.Opcode() != OpInt64Constant {
        return NoChange()
    }
    return ReplaceWith(self.g.NewNode(self.g.Ops.Int64Constant(lhs.Op().Val + rhs.Op().Val)))
}

/* _TestStrength retags multiplications as additions, in place */
type _TestStrength struct {
    g *Graph
}

func (self *_TestStrength) Reduce(node *Node) Reduction {
    if node.Opcode() != OpMul {
        return NoChange()
    }
    node.ChangeOp(self.g.Ops.Add())
    return Changed(node)
}

func newTestGraph() *Graph {
    g := NewGraph()
    g.SetStart(g.NewNode(g.Ops.Start()))
    return g
}

func TestGraphReducer_Fixpoint(t *testing.T) {
    g := newTestGraph()
    c1 := g.NewNode(g.Ops.Int64Constant(1))
    c2 := g.NewNode(g.Ops.Int64Constant(2))
    c3 := g.NewNode(g.Ops.Int64Constant(3))
    a1 := g.NewNode(g.Ops.Add(), c1, c2)
    a2 := g.NewNode(g.Ops.Add(), a1, c3)
    ret := g.NewNode(g.Ops.Return(1), a2, g.Start(), g.Start())
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    /* the whole chain folds away in one run */
    gr := NewGraphReducer(g, &_TestFold{g})
    gr.ReduceGraph()

    v := ret.ValueInput(0)
    require.Equal(t, OpInt64Constant, v.Opcode())
    require.Equal(t, int64(6), v.Op().Val)
    require.True(t, a1.IsDead())
    require.True(t, a2.IsDead())

    /* a second run finds nothing left to do */
    gr.ReduceGraph()
    require.Same(t, v, ret.ValueInput(0))
}

func TestGraphReducer_PipelineRestart(t *testing.T) {
    g := newTestGraph()
    c2 := g.NewNode(g.Ops.Int64Constant(2))
    c3 := g.NewNode(g.Ops.Int64Constant(3))
    mul := g.NewNode(g.Ops.Mul(), c2, c3)
    ret := g.NewNode(g.Ops.Return(1), mul, g.Start(), g.Start())
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    /* the strength reducer retags the node in place, which restarts the
     * pipeline so the folder sees the new shape in the same round */
    gr := NewGraphReducer(g, &_TestFold{g}, &_TestStrength{g})
    gr.ReduceGraph()

    v := ret.ValueInput(0)
    require.Equal(t, OpInt64Constant, v.Opcode())
    require.Equal(t, int64(5), v.Op().Val)
}

func TestGraphReducer_ReplaceSyncsAnchors(t *testing.T) {
    g := newTestGraph()
    ret := g.NewNode(g.Ops.Return(1), g.NewNode(g.Ops.Int64Constant(0)), g.Start(), g.Start())
    end := g.NewNode(g.Ops.End(1), ret)
    g.SetEnd(end)

    other := g.NewNode(g.Ops.End(1), ret)
    gr := NewGraphReducer(g)
    gr.Replace(end, other)
    require.Same(t, other, g.End())
    require.True(t, end.IsDead())

    /* replacing a node with itself is a no-op */
    gr.Replace(other, other)
    require.False(t, other.IsDead())
}

func TestGraphReducer_Limit(t *testing.T) {
    g := newTestGraph()
    ret := g.NewNode(g.Ops.Return(1), g.NewNode(g.Ops.Int64Constant(0)), g.Start(), g.Start())
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    gr := NewGraphReducer(g, &_TestFold{g})
    require.Panics(t, func() { gr.SetLimit(-1) })

    gr.SetLimit(1)
    require.Panics(t, func() { gr.ReduceGraph() })
}

func TestGraphReducer_RevisitOnlyVisited(t *testing.T) {
    g := newTestGraph()
    c1 := g.NewNode(g.Ops.Int64Constant(1))

    /* revisiting an unvisited node must not queue it */
    gr := NewGraphReducer(g)
    gr.Revisit(c1)
    require.True(t, gr.rq.Empty())
}
