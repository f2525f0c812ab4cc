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

type _EdgeKind uint8

const (
    _E_value _EdgeKind = iota
    _E_effect
    _E_control
)

// Operator describes the kind-specific metadata of a node: its opcode, the
// partitioning of its inputs and outputs into value, effect and control
// segments, and the per-opcode auxiliary payload. Inputs are always laid out
// as values first, then effects, then controls.
type Operator struct {
    Op   Opcode
    Vin  int
    Ein  int
    Cin  int
    Vout int
    Eout int
    Cout int
    Rep  Rep
    Idx  int
    Val  int64
}

// TotalInputs returns the number of input slots a node with this operator
// carries.
func (self *Operator) TotalInputs() int {
    return self.Vin + self.Ein + self.Cin
}

func (self *Operator) String() string {
    switch self.Op {
        case OpEnd           : return fmt.Sprintf("End(%d)", self.Cin)
        case OpMerge         : return fmt.Sprintf("Merge(%d)", self.Cin)
        case OpLoop          : return fmt.Sprintf("Loop(%d)", self.Cin)
        case OpSwitch        : return fmt.Sprintf("Switch(%d)", self.Cout)
        case OpIfValue       : return fmt.Sprintf("IfValue(%d)", self.Idx)
        case OpPhi           : return fmt.Sprintf("Phi(%s:%d)", self.Rep, self.Vin)
        case OpEffectPhi     : return fmt.Sprintf("EffectPhi(%d)", self.Ein)
        case OpReturn        : return fmt.Sprintf("Return(%d)", self.Vin)
        case OpParameter     : return fmt.Sprintf("Parameter(%d)", self.Idx)
        case OpInt64Constant : return fmt.Sprintf("Int64Constant(%d)", self.Val)
        case OpCall          : return fmt.Sprintf("Call(%d)", self.Vin)
        case OpLoadField     : return fmt.Sprintf("LoadField(%d)", self.Val)
        case OpStoreField    : return fmt.Sprintf("StoreField(%d)", self.Val)
        default              : return self.Op.String()
    }
}

/* kindOf classifies input slot i against the operator's partitioning */
func (self *Operator) kindOf(i int) _EdgeKind {
    if i < self.Vin {
        return _E_value
    } else if i < self.Vin + self.Ein {
        return _E_effect
    } else if i < self.TotalInputs() {
        return _E_control
    } else {
        panic(fmt.Sprintf("son: input index %d out of range for %s", i, self))
    }
}

// OperatorBuilder is the factory for every operator the reducers may need to
// construct or retag a node with. It is stateless; each Graph embeds one.
type OperatorBuilder struct{}

func (OperatorBuilder) Start() *Operator {
    return &Operator{Op: OpStart, Eout: 1, Cout: 1}
}

func (OperatorBuilder) End(n int) *Operator {
    return &Operator{Op: OpEnd, Cin: n}
}

func (OperatorBuilder) Merge(n int) *Operator {
    return &Operator{Op: OpMerge, Cin: n, Cout: 1}
}

func (OperatorBuilder) Loop(n int) *Operator {
    return &Operator{Op: OpLoop, Cin: n, Cout: 1}
}

func (OperatorBuilder) LoopExit() *Operator {
    return &Operator{Op: OpLoopExit, Cin: 2, Cout: 1}
}

func (OperatorBuilder) LoopExitValue() *Operator {
    return &Operator{Op: OpLoopExitValue, Vin: 1, Cin: 1, Vout: 1}
}

func (OperatorBuilder) LoopExitEffect() *Operator {
    return &Operator{Op: OpLoopExitEffect, Ein: 1, Cin: 1, Eout: 1}
}

func (OperatorBuilder) Branch() *Operator {
    return &Operator{Op: OpBranch, Vin: 1, Cin: 1, Cout: 2}
}

func (OperatorBuilder) Switch(n int) *Operator {
    return &Operator{Op: OpSwitch, Vin: 1, Cin: 1, Cout: n}
}

func (OperatorBuilder) IfTrue() *Operator {
    return &Operator{Op: OpIfTrue, Cin: 1, Cout: 1}
}

func (OperatorBuilder) IfFalse() *Operator {
    return &Operator{Op: OpIfFalse, Cin: 1, Cout: 1}
}

func (OperatorBuilder) IfValue(i int) *Operator {
    return &Operator{Op: OpIfValue, Cin: 1, Cout: 1, Idx: i}
}

func (OperatorBuilder) IfDefault() *Operator {
    return &Operator{Op: OpIfDefault, Cin: 1, Cout: 1}
}

func (OperatorBuilder) IfSuccess() *Operator {
    return &Operator{Op: OpIfSuccess, Cin: 1, Cout: 1}
}

func (OperatorBuilder) IfException() *Operator {
    return &Operator{Op: OpIfException, Ein: 1, Cin: 1, Vout: 1, Eout: 1, Cout: 1}
}

func (OperatorBuilder) Deoptimize() *Operator {
    return &Operator{Op: OpDeoptimize, Vin: 1, Ein: 1, Cin: 1, Cout: 1}
}

func (OperatorBuilder) Return(n int) *Operator {
    return &Operator{Op: OpReturn, Vin: n, Ein: 1, Cin: 1, Cout: 1}
}

func (OperatorBuilder) Terminate() *Operator {
    return &Operator{Op: OpTerminate, Ein: 1, Cin: 1, Cout: 1}
}

func (OperatorBuilder) Throw() *Operator {
    return &Operator{Op: OpThrow, Ein: 1, Cin: 1, Cout: 1}
}

func (OperatorBuilder) Dead() *Operator {
    return &Operator{Op: OpDead, Cout: 1}
}

func (OperatorBuilder) DeadValue() *Operator {
    return &Operator{Op: OpDeadValue, Vout: 1}
}

func (OperatorBuilder) Unreachable() *Operator {
    return &Operator{Op: OpUnreachable, Ein: 1, Cin: 1, Vout: 1, Eout: 1}
}

func (OperatorBuilder) Phi(rep Rep, n int) *Operator {
    return &Operator{Op: OpPhi, Vin: n, Cin: 1, Vout: 1, Rep: rep}
}

func (OperatorBuilder) EffectPhi(n int) *Operator {
    return &Operator{Op: OpEffectPhi, Ein: n, Cin: 1, Eout: 1}
}

func (OperatorBuilder) Parameter(i int) *Operator {
    return &Operator{Op: OpParameter, Vout: 1, Idx: i}
}

func (OperatorBuilder) Int64Constant(v int64) *Operator {
    return &Operator{Op: OpInt64Constant, Vout: 1, Val: v}
}

func (OperatorBuilder) Add() *Operator {
    return &Operator{Op: OpAdd, Vin: 2, Vout: 1}
}

func (OperatorBuilder) Mul() *Operator {
    return &Operator{Op: OpMul, Vin: 2, Vout: 1}
}

func (OperatorBuilder) Call(n int) *Operator {
    return &Operator{Op: OpCall, Vin: n, Ein: 1, Cin: 1, Vout: 1, Eout: 1, Cout: 1}
}

func (OperatorBuilder) LoadField(off int64) *Operator {
    return &Operator{Op: OpLoadField, Vin: 1, Ein: 1, Cin: 1, Vout: 1, Eout: 1, Val: off}
}

func (OperatorBuilder) StoreField(off int64) *Operator {
    return &Operator{Op: OpStoreField, Vin: 2, Ein: 1, Cin: 1, Eout: 1, Val: off}
}

// ResizeMergeOrPhi derives the operator for a Merge, Loop, Phi or EffectPhi
// shrunk or grown to the given live input arity.
func (self OperatorBuilder) ResizeMergeOrPhi(op *Operator, size int) *Operator {
    switch op.Op {
        case OpMerge     : return self.Merge(size)
        case OpLoop      : return self.Loop(size)
        case OpPhi       : return self.Phi(op.Rep, size)
        case OpEffectPhi : return self.EffectPhi(size)
        default          : panic(fmt.Sprintf("son: cannot resize operator %s", op))
    }
}
