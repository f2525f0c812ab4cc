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

package turbine

import (
	"github.com/turbine-ir/turbine/son"
)

// InvariantError is the panic payload raised when the verifier or a reducer
// finds a structurally malformed graph. There is no recovery path: the
// violation is a programming defect and compilation of the current unit must
// abort rather than degrade into a miscompilation.
type InvariantError = son.InvariantError
