/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore"
)

func exploredGraph(t *testing.T) *explore.Graph {
	model, err := core.AliceBob1()
	if err != nil {
		t.Fatal(err)
	}
	prop, err := core.NoDeadlock(model)
	if err != nil {
		t.Fatal(err)
	}
	accept, err := explore.PropertyProposition(core.PropertyAccept)
	if err != nil {
		t.Fatal(err)
	}
	r, err := explore.Product(context.Background(), model, prop, &explore.Control{Limit: -1}, nil, accept)
	if err != nil {
		t.Fatal(err)
	}
	return r.Graph
}

type buffer struct {
	strings.Builder
	closed bool
}

func (b *buffer) Close() error {
	b.closed = true
	return nil
}

func TestDot(t *testing.T) {
	g := exploredGraph(t)

	out := &buffer{}
	if err := Dot(g, out, 0, 1); err != nil {
		t.Fatal(err)
	}
	if !out.closed {
		t.Fatal("not closed")
	}
	s := out.String()
	for _, want := range []string{"digraph G {", "n0 [", "a: 0", "(stutter) / stuck", "fillcolor=\"#f98b8b\""} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in\n%s", want, s)
		}
	}

	dir, err := os.MkdirTemp("", "soup-dot")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "g.dot")
	f, err := os.Create(filename)
	if err != nil {
		t.Fatal(err)
	}
	if err := Dot(g, f, -1, -1); err != nil {
		t.Fatal(err)
	}
}
