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

// DeadCodeElim propagates known-dead control and values outward through the
// graph, prunes dead inputs, and collapses merges, loops and branches whose
// liveness changed. It never decides deadness from scratch; it exploits the
// Dead/DeadValue/Unreachable markers and uninhabited types placed by earlier
// analysis.
//
// Two sentinel nodes are created per instance and shared by every rewrite:
// Dead for severed control and DeadValue for values that can never be
// produced. Both are terminal, the reducer leaves them untouched.
type DeadCodeElim struct {
    ed   Editor
    gr   *Graph
    dead *Node
    dval *Node
}

func NewDeadCodeElim(ed Editor, gr *Graph) *DeadCodeElim {
    p := &DeadCodeElim {
        ed : ed,
        gr : gr,
    }

    /* the sentinels are typed uninhabited so noReturn holds for them */
    p.dead = gr.NewNode(gr.Ops.Dead())
    p.dval = gr.NewNode(gr.Ops.DeadValue())
    p.dead.SetType(TypeNone)
    p.dval.SetType(TypeNone)
    return p
}

// Dead returns the dead-control sentinel of this pass instance.
func (self *DeadCodeElim) Dead() *Node {
    return self.dead
}

// DeadValue returns the dead-value sentinel of this pass instance.
func (self *DeadCodeElim) DeadValue() *Node {
    return self.dval
}

/* noReturn holds iff the node can never produce a value or an effect */
func noReturn(p *Node) bool {
    return p.Opcode() == OpDead ||
           p.Opcode() == OpUnreachable ||
           p.Opcode() == OpDeadValue ||
           !p.TypeOrAny().IsInhabited()
}

/* hasDeadInput holds iff the node is downstream of an already-dead input */
func hasDeadInput(p *Node) bool {
    for _, in := range p.Inputs() {
        if noReturn(in) {
            return true
        }
    }
    return false
}

func (self *DeadCodeElim) Reduce(node *Node) Reduction {
    switch node.Opcode() {
        case OpEnd                               : return self.reduceEnd(node)
        case OpLoop, OpMerge                     : return self.reduceLoopOrMerge(node)
        case OpLoopExit                          : return self.reduceLoopExit(node)
        case OpUnreachable, OpIfException        : return self.reduceUnreachableOrIfException(node)
        case OpPhi                               : return self.reducePhi(node)
        case OpEffectPhi                         : return self.propagateDeadControl(node)
        case OpDeoptimize, OpReturn, OpTerminate : return self.reduceDeoptimizeOrReturnOrTerminate(node)
        case OpThrow                             : return self.propagateDeadControl(node)
        case OpBranch, OpSwitch                  : return self.reduceBranchOrSwitch(node)
        default                                  : return self.reduceNode(node)
    }
}

/* propagateDeadControl replaces a node whose sole control input is Dead with
 * Dead itself */
func (self *DeadCodeElim) propagateDeadControl(node *Node) Reduction {
    if node.Op().Cin != 1 {
        panic(fmt.Sprintf("dce: %s does not have exactly one control input", node))
    }
    if control := node.ControlInput(0); control.Opcode() == OpDead {
        return ReplaceWith(control)
    }
    return NoChange()
}

func (self *DeadCodeElim) reduceEnd(node *Node) Reduction {
    nb := node.InputCount()
    live := 0

    /* skip dead inputs, compact the live ones into a stable prefix */
    for i := 0; i < nb; i++ {
        if in := node.InputAt(i); in.Opcode() != OpDead {
            if i != live {
                node.ReplaceInput(live, in)
            }
            live++
        }
    }

    /* every termination path is dead */
    if live == 0 {
        return ReplaceWith(self.dead)
    }

    /* some paths died, shrink the arity */
    if live < nb {
        node.TrimInputs(live)
        node.ChangeOp(self.gr.Ops.End(live))
        return Changed(node)
    }
    return NoChange()
}

func (self *DeadCodeElim) reduceLoopOrMerge(node *Node) Reduction {
    nb := node.InputCount()
    live := 0

    /* count the live inputs and compact them on the fly, applying the same
     * index permutation to every Phi and EffectPhi hanging off this join.
     * A loop is dead outright when its entry input is dead: a loop that can
     * never be entered can never run, whatever its back edges say. */
    if node.Opcode() != OpLoop || node.InputAt(0).Opcode() != OpDead {
        for i := 0; i < nb; i++ {
            in := node.InputAt(i)

            /* skip dead inputs */
            if in.Opcode() == OpDead {
                continue
            }

            /* compact live inputs */
            if live != i {
                node.ReplaceInput(live, in)
                for _, use := range node.Uses() {
                    if use.Opcode().IsPhiOpcode() {
                        if use.InputCount() != nb + 1 {
                            panic(fmt.Sprintf("dce: phi %s does not track the arity of %s", use, node))
                        }
                        use.ReplaceInput(live, use.InputAt(i))
                    }
                }
            }
            live++
        }
    }

    /* the join is completely dead */
    if live == 0 {
        return ReplaceWith(self.dead)
    }

    /* a single-entry join collapses; the live input sits at offset 0 after
     * compaction. Phis pick their sole remaining value, loop exits get
     * spliced out, and a re-entry guard of a non-looping construct dies. */
    if live == 1 {
        for _, use := range node.Uses() {
            if use.Opcode().IsPhiOpcode() {
                self.ed.Replace(use, use.InputAt(0))
            } else if use.Opcode() == OpLoopExit && use.InputAt(1) == node {
                self.removeLoopExit(use)
            } else if use.Opcode() == OpTerminate {
                if node.Opcode() != OpLoop {
                    panic(fmt.Sprintf("dce: %s terminates non-loop %s", use, node))
                }
                self.ed.Replace(use, self.dead)
            }
        }
        return ReplaceWith(node.InputAt(0))
    }

    /* some inputs died: shrink this join and every phi with it, and queue
     * the phis for another round since their own liveness may have changed */
    if live < nb {
        for _, use := range node.Uses() {
            if use.Opcode().IsPhiOpcode() {
                use.ReplaceInput(live, node)
                self.trimMergeOrPhi(use, live)
                self.ed.Revisit(use)
            }
        }
        self.trimMergeOrPhi(node, live)
        return Changed(node)
    }
    return NoChange()
}

/* removeLoopExit splices a LoopExit out of the graph: escaping values and
 * effects read whatever entered the exit, control falls through */
func (self *DeadCodeElim) removeLoopExit(node *Node) Reduction {
    for _, use := range node.Uses() {
        if use.Opcode() == OpLoopExitValue || use.Opcode() == OpLoopExitEffect {
            self.ed.Replace(use, use.InputAt(0))
        }
    }
    control := node.ControlInput(0)
    self.ed.Replace(node, control)
    return ReplaceWith(control)
}

func (self *DeadCodeElim) reduceLoopExit(node *Node) Reduction {
    control := node.ControlInput(0)
    loop := node.ControlInput(1)

    /* the exit goes away once either its entry control or its loop dies */
    if control.Opcode() == OpDead || loop.Opcode() == OpDead {
        return self.removeLoopExit(node)
    }
    return NoChange()
}

func (self *DeadCodeElim) reduceNode(node *Node) Reduction {
    ein := node.Op().Ein
    cin := node.Op().Cin

    /* dead control dominates everything else */
    if cin == 1 {
        if r := self.propagateDeadControl(node); r.Modified() {
            return r
        }
    }

    /* pure nodes die with any of their value inputs */
    if ein == 0 && (cin == 0 || node.Op().Cout == 0) {
        return self.reducePureNode(node)
    }

    /* nodes on the effect chain get an explicit trap instead */
    if ein > 0 {
        return self.reduceEffectNode(node)
    }
    return NoChange()
}

func (self *DeadCodeElim) reducePhi(node *Node) Reduction {
    if r := self.propagateDeadControl(node); r.Modified() {
        return r
    }

    /* a phi that merges nothing representable, or whose type is
     * uninhabited, can never produce a value */
    if node.Op().Rep == RepNone || !node.TypeOrAny().IsInhabited() {
        return ReplaceWith(self.dval)
    }
    return NoChange()
}

func (self *DeadCodeElim) reducePureNode(node *Node) Reduction {
    for i := 0; i < node.Op().Vin; i++ {
        if noReturn(node.ValueInput(i)) {
            return ReplaceWith(self.dval)
        }
    }
    return NoChange()
}

func (self *DeadCodeElim) reduceUnreachableOrIfException(node *Node) Reduction {
    if r := self.propagateDeadControl(node); r.Modified() {
        return r
    }

    /* dead effect chain severs the node outright */
    effect := node.EffectInput(0)
    if effect.Opcode() == OpDead {
        return ReplaceWith(effect)
    }

    /* a second trap on the same path is redundant: splice it out of the
     * effect and control chains, its value can never be observed */
    if effect.Opcode() == OpUnreachable {
        RelaxEffectsAndControls(node, self.ed)
        return ReplaceWith(self.dval)
    }
    return NoChange()
}

func (self *DeadCodeElim) reduceEffectNode(node *Node) Reduction {
    if node.Op().Ein != 1 {
        panic(fmt.Sprintf("dce: %s does not have exactly one effect input", node))
    }

    /* severed effect chain */
    effect := node.EffectInput(0)
    if effect.Opcode() == OpDead {
        return ReplaceWith(effect)
    }

    /* live effect chain and live inputs */
    if !hasDeadInput(node) {
        return NoChange()
    }

    /* the incoming effect already traps, this node is redundant */
    if effect.Opcode() == OpUnreachable {
        RelaxEffectsAndControls(node, self.ed)
        return ReplaceWith(self.dval)
    }

    /* materialize an explicit trap at the first point the code becomes
     * provably unreachable, rather than letting a dead value flow on: the
     * node's value consumers read DeadValue, its effect and control
     * successors chain through the new Unreachable */
    control := self.gr.Start()
    if node.Op().Cin == 1 {
        control = node.ControlInput(0)
    }
    unreachable := self.gr.NewNode(self.gr.Ops.Unreachable(), effect, control)
    ReplaceWithValue(node, self.dval, node, control, self.ed)
    return ReplaceWith(unreachable)
}

func (self *DeadCodeElim) reduceDeoptimizeOrReturnOrTerminate(node *Node) Reduction {
    if r := self.propagateDeadControl(node); r.Modified() {
        return r
    }

    /* any of the three terminal forms becomes an unconditional trap once
     * some input is known unreachable */
    if hasDeadInput(node) {
        effect := node.EffectInput(0)
        control := node.ControlInput(0)

        /* wrap the effect in a trap unless it already is one */
        if effect.Opcode() != OpUnreachable {
            effect = self.gr.NewNode(self.gr.Ops.Unreachable(), effect, control)
        }

        /* truncate to (effect, control) and retag as Throw */
        node.TrimInputs(2)
        node.ReplaceInput(0, effect)
        node.ReplaceInput(1, control)
        node.ChangeOp(self.gr.Ops.Throw())
        return Changed(node)
    }
    return NoChange()
}

func (self *DeadCodeElim) reduceBranchOrSwitch(node *Node) Reduction {
    if r := self.propagateDeadControl(node); r.Modified() {
        return r
    }

    /* a fork on a dead value must come from unreachable code, but schedule
     * freedom between the effect and control chains can leave it on a live
     * control path. Any successor works; the first is chosen by convention
     * and downstream passes rely on that tie-break. */
    if condition := node.ValueInput(0); condition.Opcode() == OpDeadValue {
        projections := CollectControlProjections(node)
        self.ed.Replace(projections[0], node.ControlInput(0))
        return ReplaceWith(self.dead)
    }
    return NoChange()
}

/* trimMergeOrPhi shrinks a join or phi to the given live arity and retags
 * its operator to match */
func (self *DeadCodeElim) trimMergeOrPhi(node *Node, size int) {
    op := self.gr.Ops.ResizeMergeOrPhi(node.Op(), size)
    node.TrimInputs(op.TotalInputs())
    node.ChangeOp(op)
}
