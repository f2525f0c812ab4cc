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
    `github.com/oleiade/lane`
)

// NodeIter walks every node reachable from the graph's End node through
// input edges, visiting each node exactly once in depth-first order.
type NodeIter struct {
    n *Node
    s *lane.Stack
    v map[int]struct{}
}

func newNodeIter(root *Node) *NodeIter {
    return &NodeIter {
        s: stacknew(root),
        v: map[int]struct{}{ root.id: {} },
    }
}

func (self *NodeIter) Next() bool {
    /* scan until the stack is empty */
    for !self.s.Empty() {
        this := self.s.Pop().(*Node)

        /* queue all the unvisited inputs */
        for _, p := range this.ins {
            if p != nil {
                if _, ok := self.v[p.id]; !ok {
                    self.v[p.id] = struct{}{}
                    self.s.Push(p)
                }
            }
        }

        /* yield the current node */
        self.n = this
        return true
    }

    /* clear the node pointer to indicate the end of iteration */
    self.n = nil
    return false
}

func (self *NodeIter) Node() *Node {
    return self.n
}

func (self *NodeIter) ForEach(action func(p *Node)) {
    for self.Next() {
        action(self.n)
    }
}

// LiveNodes iterates the nodes reachable from the End node, which is exactly
// the part of the arena later phases will ever observe.
func (self *Graph) LiveNodes() *NodeIter {
    if self.end == nil {
        panic("son: graph has no end node")
    }
    return newNodeIter(self.end)
}
