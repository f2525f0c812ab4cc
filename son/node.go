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
    `strings`
)

// Node is an identity-bearing vertex of the sea-of-nodes graph. It carries
// an operator, an ordered input list partitioned per the operator, the
// reverse set of uses (one entry per referencing input edge, not owned), and
// an optional inferred type.
//
// All input mutation goes through the methods below so the use lists stay a
// bijection of the input edges.
type Node struct {
    id   int
    op   *Operator
    typ  Type
    ins  []*Node
    use  []*Node
    dead bool
}

func (self *Node) Id() int {
    return self.id
}

func (self *Node) Op() *Operator {
    return self.op
}

func (self *Node) Opcode() Opcode {
    return self.op.Op
}

func (self *Node) Type() Type {
    return self.typ
}

func (self *Node) SetType(ty Type) {
    self.typ = ty
}

// TypeOrAny returns the inferred type of the node, or TypeAny if no type was
// ever inferred for it.
func (self *Node) TypeOrAny() Type {
    if self.typ == TypeInvalid {
        return TypeAny
    } else {
        return self.typ
    }
}

func (self *Node) InputCount() int {
    return len(self.ins)
}

func (self *Node) InputAt(i int) *Node {
    return self.ins[i]
}

// Inputs returns the input list for read-only iteration. Callers must not
// write through the returned slice.
func (self *Node) Inputs() []*Node {
    return self.ins
}

func (self *Node) UseCount() int {
    return len(self.use)
}

// Uses returns a snapshot of the users of this node, one entry per input
// edge that references it. The snapshot stays valid while the graph mutates.
func (self *Node) Uses() []*Node {
    r := make([]*Node, len(self.use))
    copy(r, self.use)
    return r
}

// ReplaceInput redirects input slot i to v, keeping both use lists in sync.
func (self *Node) ReplaceInput(i int, v *Node) {
    old := self.ins[i]

    /* no change */
    if old == v {
        return
    }

    /* unlink the old edge, then link the new one */
    if old != nil {
        old.removeUse(self)
    }
    if self.ins[i] = v; v != nil {
        v.use = append(v.use, self)
    }
}

// TrimInputs drops every input slot at index n and above.
func (self *Node) TrimInputs(n int) {
    if n > len(self.ins) {
        panic(fmt.Sprintf("son: cannot trim %s to %d inputs", self, n))
    }

    /* unlink the trimmed edges */
    for i := n; i < len(self.ins); i++ {
        if self.ins[i] != nil {
            self.ins[i].removeUse(self)
            self.ins[i] = nil
        }
    }

    /* shrink the input list */
    self.ins = self.ins[:n]
}

// ReplaceUses redirects every input edge that references this node to v and
// migrates the use set along, leaving this node unreferenced.
func (self *Node) ReplaceUses(v *Node) {
    if self == v {
        return
    }

    /* rewrite the matching input slot of every user */
    for _, u := range self.use {
        for i, in := range u.ins {
            if in == self {
                u.ins[i] = v
            }
        }
    }

    /* migrate the use set */
    v.use = append(v.use, self.use...)
    self.use = self.use[:0]
}

// ChangeOp retags the node with a new operator. The current input count must
// match the new operator exactly.
func (self *Node) ChangeOp(op *Operator) {
    if len(self.ins) != op.TotalInputs() {
        panic(fmt.Sprintf("son: operator %s expects %d inputs, node %s has %d", op, op.TotalInputs(), self, len(self.ins)))
    }
    self.op = op
}

// Kill disconnects the node from all of its inputs and marks it dead. The
// node must be unreferenced already.
func (self *Node) Kill() {
    if len(self.use) != 0 {
        panic(fmt.Sprintf("son: killing node %s which still has %d uses", self, len(self.use)))
    }
    self.TrimInputs(0)
    self.dead = true
}

// IsDead checks whether the node was killed after being spliced out of the
// graph.
func (self *Node) IsDead() bool {
    return self.dead
}

func (self *Node) String() string {
    nb := len(self.ins)
    in := make([]string, 0, nb)

    /* dump the input ids */
    for _, v := range self.ins {
        if v == nil {
            in = append(in, "_")
        } else {
            in = append(in, fmt.Sprintf("#%d", v.id))
        }
    }

    /* join them together */
    return fmt.Sprintf(
        "#%d:%s(%s)",
        self.id,
        self.op,
        strings.Join(in, ", "),
    )
}

/* removeUse unlinks one occurrence of u from the use list */
func (self *Node) removeUse(u *Node) {
    for i := len(self.use) - 1; i >= 0; i-- {
        if self.use[i] == u {
            self.use = append(self.use[:i], self.use[i+1:]...)
            return
        }
    }
    panic(fmt.Sprintf("son: node #%d is not a user of %s", u.id, self))
}
