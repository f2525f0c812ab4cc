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
)

// Graph owns every node created during a compilation. It hands out stable
// integer identities and tracks the distinguished start and end nodes. The
// graph is not thread-safe; the design assumes one mutator at a time.
type Graph struct {
    Ops   OperatorBuilder
    nodes []*Node
    start *Node
    end   *Node
}

func NewGraph() *Graph {
    return new(Graph)
}

// NewNode allocates a node with the given operator and inputs. The input
// count must match the operator's partitioning exactly.
func (self *Graph) NewNode(op *Operator, ins ...*Node) *Node {
    if len(ins) != op.TotalInputs() {
        panic(fmt.Sprintf("son: operator %s expects %d inputs, got %d", op, op.TotalInputs(), len(ins)))
    }

    /* allocate with a fresh identity */
    p := &Node {
        id : len(self.nodes),
        op : op,
    }

    /* link every input edge */
    p.ins = make([]*Node, 0, len(ins))
    for _, v := range ins {
        p.ins = append(p.ins, v)
        v.use = append(v.use, p)
    }

    /* register in the arena */
    self.nodes = append(self.nodes, p)
    return p
}

func (self *Graph) Start() *Node {
    return self.start
}

func (self *Graph) End() *Node {
    return self.end
}

func (self *Graph) SetStart(p *Node) {
    self.start = p
}

func (self *Graph) SetEnd(p *Node) {
    self.end = p
}

// NodeCount returns the number of nodes ever created, which also bounds
// every node id.
func (self *Graph) NodeCount() int {
    return len(self.nodes)
}
