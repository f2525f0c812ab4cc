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

// Type is the fragment of the value-type lattice the reducers care about.
// Earlier analysis phases annotate nodes with it; TypeNone is the bottom
// element meaning "can never hold any runtime value".
type Type uint8

const (
    TypeInvalid Type = iota
    TypeNone
    TypeBoolean
    TypeNumber
    TypeAny
)

func (self Type) String() string {
    switch self {
        case TypeInvalid : return "Invalid"
        case TypeNone    : return "None"
        case TypeBoolean : return "Boolean"
        case TypeNumber  : return "Number"
        case TypeAny     : return "Any"
        default          : panic("unreachable")
    }
}

// IsInhabited checks whether any runtime value can inhabit the type.
func (self Type) IsInhabited() bool {
    return self != TypeNone
}

// Rep is the machine representation of a value, carried by Phi operators.
// RepNone marks a phi that produces no usable value at all.
type Rep uint8

const (
    RepNone Rep = iota
    RepWord32
    RepWord64
    RepTagged
    RepFloat64
)

func (self Rep) String() string {
    switch self {
        case RepNone    : return "None"
        case RepWord32  : return "Word32"
        case RepWord64  : return "Word64"
        case RepTagged  : return "Tagged"
        case RepFloat64 : return "Float64"
        default         : panic("unreachable")
    }
}
