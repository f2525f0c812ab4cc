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

// ValueInput returns the i-th value input of the node.
func (self *Node) ValueInput(i int) *Node {
    if i < 0 || i >= self.op.Vin {
        panic(fmt.Sprintf("son: value input %d out of range for %s", i, self))
    }
    return self.ins[i]
}

// EffectInput returns the i-th effect input of the node.
func (self *Node) EffectInput(i int) *Node {
    if i < 0 || i >= self.op.Ein {
        panic(fmt.Sprintf("son: effect input %d out of range for %s", i, self))
    }
    return self.ins[self.op.Vin + i]
}

// ControlInput returns the i-th control input of the node.
func (self *Node) ControlInput(i int) *Node {
    if i < 0 || i >= self.op.Cin {
        panic(fmt.Sprintf("son: control input %d out of range for %s", i, self))
    }
    return self.ins[self.op.Vin + self.op.Ein + i]
}

// CollectControlProjections gathers the control projections hanging off a
// multi-successor control node, indexed by successor: IfTrue before IfFalse,
// IfValue by case index with IfDefault last, IfSuccess before IfException.
// Every successor slot must be occupied.
func CollectControlProjections(node *Node) []*Node {
    nb := node.op.Cout
    ret := make([]*Node, nb)

    /* sort the projection uses into their successor slots */
    for _, use := range node.Uses() {
        if !use.Opcode().IsControlProjection() {
            continue
        }
        var idx int
        switch use.Opcode() {
            case OpIfTrue      : idx = 0
            case OpIfFalse     : idx = 1
            case OpIfSuccess   : idx = 0
            case OpIfException : idx = 1
            case OpIfValue     : idx = use.op.Idx
            case OpIfDefault   : idx = nb - 1
            default            : panic("unreachable")
        }
        if idx >= nb || ret[idx] != nil {
            panic(fmt.Sprintf("son: duplicate or out-of-range control projection %s of %s", use, node))
        }
        ret[idx] = use
    }

    /* a control fork with a missing successor is malformed */
    for i, p := range ret {
        if p == nil {
            panic(fmt.Sprintf("son: missing control projection %d of %s", i, node))
        }
    }
    return ret
}

// ReplaceWithValue redirects the outgoing edges of node by kind: value uses
// to value, effect uses to effect, control uses to control. A nil effect or
// control defaults to the node's own incoming effect or control chain. Every
// rewritten user is queued for another reduction round.
func ReplaceWithValue(node *Node, value *Node, effect *Node, control *Node, ed Editor) {
    if effect == nil && node.op.Eout > 0 {
        effect = node.EffectInput(0)
    }
    if control == nil && node.op.Cout > 0 {
        control = node.ControlInput(0)
    }

    /* requeue helper, the editor is optional for standalone surgery */
    revisit := func(p *Node) {
        if ed != nil {
            ed.Revisit(p)
        }
    }

    /* rewrite each use edge per its kind in the user's partitioning */
    for _, use := range node.Uses() {
        for i, in := range use.ins {
            if in != node {
                continue
            }
            switch use.op.kindOf(i) {
                case _E_control: {
                    if use.Opcode() == OpIfSuccess {
                        use.ReplaceUses(control)
                        use.Kill()
                        revisit(control)
                    } else {
                        use.ReplaceInput(i, control)
                        revisit(use)
                    }
                }
                case _E_effect: {
                    use.ReplaceInput(i, effect)
                    revisit(use)
                }
                default: {
                    use.ReplaceInput(i, value)
                    revisit(use)
                }
            }
        }
    }
}

// RelaxEffectsAndControls splices node out of the effect and control chains:
// effect uses read from its incoming effect, control uses from its incoming
// control. Value uses are left alone.
func RelaxEffectsAndControls(node *Node, ed Editor) {
    var effect *Node
    var control *Node

    /* the chains the node currently extends */
    if node.op.Eout > 0 {
        effect = node.EffectInput(0)
    }
    if node.op.Cout > 0 {
        control = node.ControlInput(0)
    }

    /* splice every effect and control edge */
    for _, use := range node.Uses() {
        for i, in := range use.ins {
            if in != node {
                continue
            }
            switch use.op.kindOf(i) {
                case _E_effect: {
                    use.ReplaceInput(i, effect)
                    if ed != nil {
                        ed.Revisit(use)
                    }
                }
                case _E_control: {
                    use.ReplaceInput(i, control)
                    if ed != nil {
                        ed.Revisit(use)
                    }
                }
            }
        }
    }
}
