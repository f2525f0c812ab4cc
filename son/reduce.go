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

    `github.com/oleiade/lane`
)

type _ReduceKind uint8

const (
    _R_noop _ReduceKind = iota
    _R_inplace
    _R_replace
)

// Reduction is a reducer's verdict for a single node: no change, the node
// was mutated in place, or the node is to be replaced by another node. It is
// consumed immediately by the driver and never persisted.
type Reduction struct {
    rk _ReduceKind
    nd *Node
}

// NoChange reports that the node is already at its fixpoint.
func NoChange() Reduction {
    return Reduction{}
}

// Changed reports that the node was mutated in place and its users need to
// be revisited.
func Changed(p *Node) Reduction {
    return Reduction{rk: _R_inplace, nd: p}
}

// ReplaceWith reports that every use of the node must be redirected to p.
func ReplaceWith(p *Node) Reduction {
    return Reduction{rk: _R_replace, nd: p}
}

func (self Reduction) Modified() bool {
    return self.rk != _R_noop
}

func (self Reduction) InPlace() bool {
    return self.rk == _R_inplace
}

func (self Reduction) Replacement() *Node {
    return self.nd
}

func (self Reduction) String() string {
    switch self.rk {
        case _R_noop    : return "NoChange"
        case _R_inplace : return fmt.Sprintf("Changed(%s)", self.nd)
        case _R_replace : return fmt.Sprintf("ReplaceWith(%s)", self.nd)
        default         : panic("unreachable")
    }
}

// Reducer is a single graph transformation, invoked node by node and driven
// to a fixpoint by the GraphReducer. Re-invoking it on a node already at
// fixpoint must yield NoChange.
type Reducer interface {
    Reduce(node *Node) Reduction
}

// Editor is the surgery surface the driver exposes to reducers that need to
// edit nodes other than the one under reduction.
type Editor interface {
    Revisit(node *Node)
    Replace(node *Node, with *Node)
}

type _NodeState uint8

const (
    _S_unvisited _NodeState = iota
    _S_revisit
    _S_onstack
    _S_visited
)

// GraphReducer drives a set of reducers over a graph until none of them has
// anything left to say. Nodes are visited inputs-first from End; whenever a
// node changes, its users are queued for another round. The walk terminates
// because every verdict other than NoChange strictly shrinks or settles the
// graph.
type GraphReducer struct {
    g   *Graph
    rd  []Reducer
    st  []_NodeState
    sp  *lane.Stack
    rq  *lane.Queue
    cnt int
    lim int
}

func NewGraphReducer(g *Graph, rd ...Reducer) *GraphReducer {
    return &GraphReducer {
        g  : g,
        rd : rd,
        sp : lane.NewStack(),
        rq : lane.NewQueue(),
    }
}

// AddReducer appends a reducer to the pipeline; order is significant, each
// node is offered to the reducers in registration order.
func (self *GraphReducer) AddReducer(rd Reducer) {
    self.rd = append(self.rd, rd)
}

// SetLimit caps the number of per-node reduction rounds, zero meaning no
// cap. A non-monotone reducer bug shows up as runaway requeueing; the cap
// turns that into a loud halt instead of a hang.
func (self *GraphReducer) SetLimit(n int) {
    if n < 0 {
        panic(fmt.Sprintf("son: invalid reduction limit: %d", n))
    }
    self.lim = n
}

// Graph returns the graph under reduction.
func (self *GraphReducer) Graph() *Graph {
    return self.g
}

// ReduceGraph reduces the whole graph, starting from its End node.
func (self *GraphReducer) ReduceGraph() {
    self.ReduceNode(self.g.End())
}

// ReduceNode reduces the sub-graph rooted at the given node to a fixpoint.
func (self *GraphReducer) ReduceNode(root *Node) {
    self.push(root)

    /* drain the stack, then the revisit queue, until both settle */
    for {
        if !self.sp.Empty() {
            self.reduceTop()
        } else if !self.rq.Empty() {
            if p := self.rq.Dequeue().(*Node); self.stateOf(p) == _S_revisit {
                self.push(p)
            }
        } else {
            break
        }
    }
}

// Revisit queues a node for another reduction round.
func (self *GraphReducer) Revisit(node *Node) {
    if self.stateOf(node) == _S_visited {
        self.setState(node, _S_revisit)
        self.rq.Enqueue(node)
    }
}

// Replace redirects every use of node to with, requeues all former users,
// and detaches the unreferenced node from its inputs. Graph anchors follow
// the replacement.
func (self *GraphReducer) Replace(node *Node, with *Node) {
    if node == with {
        return
    }

    /* keep the graph anchors in sync */
    if self.g.Start() == node {
        self.g.SetStart(with)
    }
    if self.g.End() == node {
        self.g.SetEnd(with)
    }

    /* rewrite every user's input slots, then requeue them */
    users := node.Uses()
    node.ReplaceUses(with)
    for _, u := range users {
        self.Revisit(u)
    }

    /* detach the node once nothing references it */
    if node.UseCount() == 0 && !node.IsDead() {
        node.Kill()
    }
}

func (self *GraphReducer) reduceTop() {
    node := self.sp.Head().(*Node)

    /* a node killed while on the stack needs no further attention */
    if node.IsDead() {
        self.pop(node)
        return
    }

    /* every input reduces before the node itself */
    for _, in := range node.ins {
        if in != nil && in != node && self.recurse(in) {
            return
        }
    }

    /* all inputs are settled, run the reducers */
    r := self.reduce(node)

    /* already at fixpoint */
    if !r.Modified() {
        self.pop(node)
        return
    }

    /* replaced wholesale: rewire all users to the replacement */
    if !r.InPlace() {
        self.pop(node)
        self.Replace(node, r.Replacement())
        return
    }

    /* changed in place: the mutation may have introduced new inputs,
     * settle those first, then give every user another round */
    for _, in := range node.ins {
        if in != nil && in != node && self.recurse(in) {
            return
        }
    }
    self.pop(node)
    for _, use := range node.Uses() {
        if use != node {
            self.Revisit(use)
        }
    }
}

/* reduce offers the node to every reducer, restarting whenever one of them
 * mutates the node in place, so each reducer sees the final shape */
func (self *GraphReducer) reduce(node *Node) Reduction {
    i := 0
    skip := -1

    /* account one round against the runaway cap */
    self.cnt++
    if self.lim != 0 && self.cnt > self.lim {
        panic(fmt.Sprintf("son: reduction did not converge within %d rounds", self.lim))
    }

    /* run the reducer pipeline */
    for i < len(self.rd) {
        if i == skip {
            i++
            continue
        }

        /* query the next reducer */
        r := self.rd[i].Reduce(node)

        /* a wholesale replacement ends the pipeline immediately */
        if r.Modified() && !r.InPlace() {
            return r
        }

        /* in-place changes restart the pipeline for the other reducers */
        if r.Modified() {
            skip = i
            i = 0
        } else {
            i++
        }
    }

    /* at least one reducer changed the node in place */
    if skip >= 0 {
        return Changed(node)
    }
    return NoChange()
}

func (self *GraphReducer) push(node *Node) {
    self.setState(node, _S_onstack)
    self.sp.Push(node)
}

func (self *GraphReducer) pop(node *Node) {
    if self.sp.Pop().(*Node) != node {
        panic(fmt.Sprintf("son: reduction stack corrupted at %s", node))
    }
    self.setState(node, _S_visited)
}

/* recurse pushes the node if it still awaits a visit */
func (self *GraphReducer) recurse(node *Node) bool {
    if self.stateOf(node) > _S_revisit {
        return false
    }
    self.push(node)
    return true
}

func (self *GraphReducer) stateOf(node *Node) _NodeState {
    if node.id >= len(self.st) {
        return _S_unvisited
    }
    return self.st[node.id]
}

func (self *GraphReducer) setState(node *Node, st _NodeState) {
    for node.id >= len(self.st) {
        self.st = append(self.st, _S_unvisited)
    }
    self.st[node.id] = st
}
