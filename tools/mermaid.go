/* Copyright 2018 Comcast Cable Communications Management, LLC
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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore"
	"github.com/Comcast/soup/util"
)

type MermaidOpts struct {
	// ShowBindings will result in node labels that include the
	// JSON representation of the bindings.
	ShowBindings bool `json:"showBindings"`

	// AcceptingFill is the fill color of for accepting nodes.
	// Does not apply if AcceptingClass is set.
	AcceptingFill string `json:"acceptingFill,omitempty"`

	// AcceptingClass will be the CSS class for accepting nodes.
	AcceptingClass string `json:"acceptingClass,omitempty"`

	// ShowProperty includes the property bindings in product
	// graphs.
	ShowProperty bool `json:"showProperty,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given graph.
func Mermaid(g *explore.Graph, w io.WriteCloser, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{
			ShowBindings:  true,
			AcceptingFill: "#f98b8b",
			ShowProperty:  true,
		}
	}

	util.Logf("mermaid processing %d nodes", len(g.Nodes))

	fmt.Fprintf(w, "graph TB\n")

	for _, n := range g.Nodes {
		label := fmt.Sprintf("%d", n.Id)
		if opts.ShowBindings {
			label += " " + mermaidBindings(n.Model)
			if opts.ShowProperty && n.Property != nil {
				label += " / " + mermaidBindings(n.Property)
			}
		}
		if n.Initial {
			fmt.Fprintf(w, "  n%d([\"%s\"])\n", n.Id, label)
		} else {
			fmt.Fprintf(w, "  n%d(\"%s\")\n", n.Id, label)
		}
		if n.Accepting {
			switch {
			case opts.AcceptingClass != "":
				fmt.Fprintf(w, "  class n%d %s\n", n.Id, opts.AcceptingClass)
			case opts.AcceptingFill != "":
				fmt.Fprintf(w, "  style n%d fill:%s\n", n.Id, opts.AcceptingFill)
			}
		}
	}

	for _, e := range g.Edges {
		fmt.Fprintf(w, "  n%d -- \"%s\" --> n%d\n", e.From, edgeLabel(e), e.To)
	}

	fmt.Fprintf(w, "\n")
	util.Logf("mermaid gen done")

	return w.Close()
}

func mermaidBindings(env *core.Environment) string {
	if env == nil {
		return "{}"
	}
	bs, err := json.Marshal(env.Bs)
	if err != nil {
		return "{*}"
	}
	return strings.Replace(string(bs), `"`, `'`, -1)
}
