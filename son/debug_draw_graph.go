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
    `fmt`
    `io`

    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/encoding`
    `gonum.org/v1/gonum/graph/encoding/dot`
    `gonum.org/v1/gonum/graph/simple`
)

type _DotNode struct {
    p *Node
}

func (self _DotNode) ID() int64 {
    return int64(self.p.Id())
}

func (self _DotNode) DOTID() string {
    return fmt.Sprintf("n%d", self.p.Id())
}

func (self _DotNode) Attributes() []encoding.Attribute {
    return []encoding.Attribute {
        { Key: "shape", Value: "box" },
        { Key: "label", Value: fmt.Sprintf("\"%d: %s\"", self.p.Id(), self.p.Op()) },
    }
}

type _DotEdge struct {
    f graph.Node
    t graph.Node
    k _EdgeKind
}

func (self _DotEdge) From() graph.Node {
    return self.f
}

func (self _DotEdge) To() graph.Node {
    return self.t
}

func (self _DotEdge) ReversedEdge() graph.Edge {
    return _DotEdge{f: self.t, t: self.f, k: self.k}
}

func (self _DotEdge) Attributes() []encoding.Attribute {
    switch self.k {
        case _E_effect  : return []encoding.Attribute {{ Key: "color", Value: "red" }, { Key: "style", Value: "dashed" }}
        case _E_control : return []encoding.Attribute {{ Key: "color", Value: "blue" }, { Key: "style", Value: "bold" }}
        default         : return nil
    }
}

// DrawGraph renders the live part of the graph as Graphviz dot, def-to-use:
// value edges solid black, effect edges dashed red, control edges bold blue.
// Parallel edges between the same pair of nodes collapse into one, and self
// edges are skipped; the dump is a debugging aid, not a faithful encoding.
func DrawGraph(g *Graph, w io.Writer) error {
    dg := simple.NewDirectedGraph()

    /* add every live node first so isolated anchors still show up */
    g.LiveNodes().ForEach(func(p *Node) {
        if dg.Node(int64(p.Id())) == nil {
            dg.AddNode(_DotNode{p: p})
        }
    })

    /* then every input edge, classified against the user's partitioning */
    g.LiveNodes().ForEach(func(p *Node) {
        for i, in := range p.Inputs() {
            if in != p && dg.Node(int64(in.Id())) != nil {
                dg.SetEdge(_DotEdge {
                    f: _DotNode{p: in},
                    t: _DotNode{p: p},
                    k: p.Op().kindOf(i),
                })
            }
        }
    })

    /* serialize */
    buf, err := dot.Marshal(dg, "son", "", "    ")
    if err != nil {
        return err
    }

    /* flush to the writer */
    _, err = w.Write(buf)
    return err
}
