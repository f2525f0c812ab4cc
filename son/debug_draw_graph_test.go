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
    `bytes`
    `testing`

    `github.com/stretchr/testify/require`
)

func TestDrawGraph(t *testing.T) {
    g := newTestGraph()
    c1 := g.NewNode(g.Ops.Int64Constant(42))
    load := g.NewNode(g.Ops.LoadField(8), c1, g.Start(), g.Start())
    ret := g.NewNode(g.Ops.Return(1), load, load, g.Start())
    g.SetEnd(g.NewNode(g.Ops.End(1), ret))

    /* dead arena entries must not leak into the dump */
    g.NewNode(g.Ops.Int64Constant(99))

    var buf bytes.Buffer
    require.NoError(t, DrawGraph(g, &buf))

    out := buf.String()
    require.Contains(t, out, "digraph son")
    require.Contains(t, out, "Int64Constant(42)")
    require.Contains(t, out, "color=red")
    require.Contains(t, out, "color=blue")
    require.NotContains(t, out, "Int64Constant(99)")
}
