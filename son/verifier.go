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

    `github.com/davecgh/go-spew/spew`
)

// InvariantError is the panic payload raised when a structural invariant of
// the graph does not hold. Such a violation is a programming defect, not a
// runtime condition: compilation of the current unit must abort rather than
// continue on a malformed graph.
type InvariantError struct {
    Node   *Node
    Reason string
}

func (self *InvariantError) Error() string {
    return fmt.Sprintf("son: invariant violation at %s: %s", self.Node, self.Reason)
}

func violation(p *Node, reason string, args ...interface{}) {
    spew.Config.SortKeys = true
    spew.Dump(p.Op())
    panic(&InvariantError {
        Node   : p,
        Reason : fmt.Sprintf(reason, args...),
    })
}

// Verify walks every node reachable from End and checks the structural
// invariants the reducers rely on. It panics with an InvariantError on the
// first violation.
func Verify(g *Graph) {
    g.LiveNodes().ForEach(func(p *Node) {
        verifyArity(p)
        verifyEdges(p)

        switch p.Opcode() {
            case OpEnd              : verifyEnd(p)
            case OpPhi, OpEffectPhi : verifyPhi(p)
            case OpLoopExit         : verifyLoopExit(p)
            case OpDead, OpDeadValue: verifySentinel(p)
        }
    })
}

/* End collects terminated control paths, possibly dead ones awaiting
 * compaction */
func verifyEnd(p *Node) {
    for i, in := range p.Inputs() {
        if !in.Opcode().IsGraphTerminator() && in.Opcode() != OpDead {
            violation(p, "input %d of End is not a terminated path: %s", i, in)
        }
    }
}

/* input count must match the operator's partitioning */
func verifyArity(p *Node) {
    if p.InputCount() != p.Op().TotalInputs() {
        violation(p, "operator %s wants %d inputs, node has %d", p.Op(), p.Op().TotalInputs(), p.InputCount())
    }
}

/* input edges and use lists must form a bijection */
func verifyEdges(p *Node) {
    for i, in := range p.Inputs() {
        if in == nil {
            violation(p, "input %d is nil", i)
        }

        /* this edge must appear in the input's use list at least as many
         * times as the input occupies slots of this node */
        slots := 0
        edges := 0
        for _, q := range p.Inputs() {
            if q == in {
                slots++
            }
        }
        for _, q := range in.use {
            if q == p {
                edges++
            }
        }
        if slots != edges {
            violation(p, "input #%d occupies %d slots but %d use entries", in.Id(), slots, edges)
        }
    }
}

/* a phi tracks its join point: one value (or effect) input per control
 * input of the join, plus the join itself as the trailing control input */
func verifyPhi(p *Node) {
    merge := p.ControlInput(0)
    if !merge.Opcode().IsMergeOpcode() {
        violation(p, "phi joined over non-merge %s", merge)
    }
    if p.InputCount() != merge.Op().Cin + 1 {
        violation(p, "phi arity %d does not track merge %s", p.InputCount(), merge)
    }
    if p.InputAt(p.InputCount() - 1) != merge {
        violation(p, "trailing input of phi is not its merge %s", merge)
    }
}

/* a loop exit always hangs off a loop, or off the dead sentinel while the
 * reduction that removes it is still pending */
func verifyLoopExit(p *Node) {
    if loop := p.ControlInput(1); loop.Opcode() != OpLoop && loop.Opcode() != OpDead {
        violation(p, "loop exit attached to non-loop %s", loop)
    }
}

/* sentinels are terminal: no inputs, never retagged */
func verifySentinel(p *Node) {
    if p.InputCount() != 0 {
        violation(p, "sentinel %s must not have inputs", p.Op())
    }
    if p.TypeOrAny().IsInhabited() {
        violation(p, "sentinel %s must be typed uninhabited", p.Op())
    }
}
