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

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore"
	"github.com/Comcast/soup/util"

	"gopkg.in/yaml.v2"
)

// bindingsLabel renders bindings as YAML for a Graphviz HTML label.
func bindingsLabel(env *core.Environment) string {
	if env == nil || len(env.Bs) == 0 {
		return "{}"
	}
	bs, err := yaml.Marshal(env.Bs.Native())
	if err != nil {
		return escapeHTML(err.Error())
	}
	s := strings.TrimRight(string(bs), "\n")
	return strings.Replace(escapeHTML(s), "\n", `<BR ALIGN="LEFT"/>`, -1) + `<BR ALIGN="LEFT"/>`
}

// Dot makes a Graphviz dot file for the given explored graph.
//
// The optional fromNode and toNode (-1 for none) are ids of nodes
// during a transition.  The toNode will be red, and so will the edge
// between them.
func Dot(g *explore.Graph, w io.WriteCloser, fromNode, toNode int) error {
	util.Logf("dot processing %d nodes %d edges", len(g.Nodes), len(g.Edges))

	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]
`)

	for _, n := range g.Nodes {
		label := fmt.Sprintf("<B>%d</B><BR/><FONT POINT-SIZE='10'>%s</FONT>", n.Id, bindingsLabel(n.Model))
		if n.Property != nil {
			label += "<FONT POINT-SIZE='8' COLOR='#2d93ad'>" + bindingsLabel(n.Property) + "</FONT>"
		}
		var (
			color     = "black"
			fillcolor = "#99ddc8"
			style     = "filled"
		)
		if n.Initial {
			style += ",bold"
		}
		if n.Accepting {
			fillcolor = "#f98b8b"
		}
		if n.Id == toNode {
			color = "red"
		}
		if len(g.Out(n.Id)) == 0 {
			style += ",dashed"
		}
		fmt.Fprintf(w, "  n%d [shape=\"record\", style=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%s> ]\n",
			n.Id, style, color, fillcolor, label)
	}

	for _, e := range g.Edges {
		label := edgeLabel(e)
		color := "black"
		if e.From == fromNode && e.To == toNode {
			color = "red"
		}
		fmt.Fprintf(w, "  n%d -> n%d [ color=\"%s\" label = <%s> ]\n",
			e.From, e.To, color, escapeHTML(label))
	}

	fmt.Fprintf(w, "}\n")
	return w.Close()
}

func edgeLabel(e *explore.Edge) string {
	label := e.Action
	switch {
	case e.Stutter:
		label = "(stutter)"
	case label == "":
		label = "(anonymous)"
	}
	if e.PropertyAction != "" {
		label += " / " + e.PropertyAction
	}
	return label
}

// PNG generates a PNG image based on output from Dot.
//
// This function with write two files: basename.dot and basename.png,
// where the basename is the given string.
func PNG(g *explore.Graph, basename string, fromNode, toNode int) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(g, dotfile, fromNode, toNode); err != nil {
		return pngname, err
	}
	if err := exec.Command("dot", "-Tpng", "-o", pngname, dotname).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func escapeHTML(s string) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "<", "&lt;", -1)
	s = strings.Replace(s, ">", "&gt;", -1)
	return s
}
