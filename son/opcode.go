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

// Opcode identifies the kind of a node. The set is closed: every opcode a
// graph may contain is listed here, and the reducers dispatch over it
// exhaustively.
type Opcode uint8

const (
    OpStart Opcode = iota
    OpEnd
    OpMerge
    OpLoop
    OpLoopExit
    OpLoopExitValue
    OpLoopExitEffect
    OpBranch
    OpSwitch
    OpIfTrue
    OpIfFalse
    OpIfValue
    OpIfDefault
    OpIfSuccess
    OpIfException
    OpDeoptimize
    OpReturn
    OpTerminate
    OpThrow
    OpDead
    OpDeadValue
    OpUnreachable
    OpPhi
    OpEffectPhi
    OpParameter
    OpInt64Constant
    OpAdd
    OpMul
    OpCall
    OpLoadField
    OpStoreField
)

func (self Opcode) String() string {
    switch self {
        case OpStart          : return "Start"
        case OpEnd            : return "End"
        case OpMerge          : return "Merge"
        case OpLoop           : return "Loop"
        case OpLoopExit       : return "LoopExit"
        case OpLoopExitValue  : return "LoopExitValue"
        case OpLoopExitEffect : return "LoopExitEffect"
        case OpBranch         : return "Branch"
        case OpSwitch         : return "Switch"
        case OpIfTrue         : return "IfTrue"
        case OpIfFalse        : return "IfFalse"
        case OpIfValue        : return "IfValue"
        case OpIfDefault      : return "IfDefault"
        case OpIfSuccess      : return "IfSuccess"
        case OpIfException    : return "IfException"
        case OpDeoptimize     : return "Deoptimize"
        case OpReturn         : return "Return"
        case OpTerminate      : return "Terminate"
        case OpThrow          : return "Throw"
        case OpDead           : return "Dead"
        case OpDeadValue      : return "DeadValue"
        case OpUnreachable    : return "Unreachable"
        case OpPhi            : return "Phi"
        case OpEffectPhi      : return "EffectPhi"
        case OpParameter      : return "Parameter"
        case OpInt64Constant  : return "Int64Constant"
        case OpAdd            : return "Add"
        case OpMul            : return "Mul"
        case OpCall           : return "Call"
        case OpLoadField      : return "LoadField"
        case OpStoreField     : return "StoreField"
        default               : panic("unreachable")
    }
}

// IsMergeOpcode checks for control-flow join points.
func (self Opcode) IsMergeOpcode() bool {
    return self == OpMerge || self == OpLoop
}

// IsPhiOpcode checks for nodes that select a value or effect across the
// predecessors of a join point.
func (self Opcode) IsPhiOpcode() bool {
    return self == OpPhi || self == OpEffectPhi
}

// IsControlProjection checks for single-successor projections of a
// multi-successor control node.
func (self Opcode) IsControlProjection() bool {
    switch self {
        case OpIfTrue      : fallthrough
        case OpIfFalse     : fallthrough
        case OpIfValue     : fallthrough
        case OpIfDefault   : fallthrough
        case OpIfSuccess   : fallthrough
        case OpIfException : return true
        default            : return false
    }
}

// IsGraphTerminator checks for nodes that terminate a control path and feed
// directly into End.
func (self Opcode) IsGraphTerminator() bool {
    switch self {
        case OpEnd        : fallthrough
        case OpDeoptimize : fallthrough
        case OpReturn     : fallthrough
        case OpTerminate  : fallthrough
        case OpThrow      : return true
        default           : return false
    }
}
