package tools

import (
	"encoding/json"
	"fmt"
	"html"
	"io"

	"github.com/Comcast/soup/core"
	"github.com/Comcast/soup/explore"
	"github.com/Comcast/soup/syntax"

	"github.com/jsccast/yaml"
	md "github.com/russross/blackfriday/v2"
)

// RenderSoupHTML writes an HTML fragment describing s.  The doc is
// Markdown.  The report, if not nil, is summarized after the pieces.
func RenderSoupHTML(s *syntax.Soup, doc string, report *explore.Report, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	if doc != "" {
		f(`<div class="soupDoc doc">%s</div>`, md.Run([]byte(doc)))
	}

	{ // Variables
		f(`<div class="variables"><table>`)
		for _, v := range s.Variables {
			f(`<tr class="variable"><td><span id="var-%s" class="variableName">%s</span></td><td><code>%s</code></td></tr>`,
				v.Name, v.Name, html.EscapeString(syntax.String(v.Initial)))
		}
		f(`</table></div>`)
	}

	{ // Pieces
		f(`<div class="pieces"><table>`)
		for i, p := range s.Pieces {
			name := p.Name
			if !p.Named() {
				name = fmt.Sprintf("#%d", i)
			}
			f(`<tr class="piece"><td><span id="piece-%d" class="pieceName">%s</span></td><td>`, i, html.EscapeString(name))
			f(`<table>`)
			f(`<tr><td>guard</td><td><div class="code"><pre>%s</pre></div></td></tr>`, html.EscapeString(syntax.String(p.Guard)))
			f(`<tr><td>effect</td><td><div class="code"><pre>%s</pre></div></td></tr>`, html.EscapeString(syntax.String(p.Effect)))
			f(`</table>`)
			f(`</td></tr>`)
		}
		f(`</table></div>`)
	}

	if report != nil {
		f(`<div class="report">`)
		f(`<p class="verdict">%s</p>`, html.EscapeString(report.Verdict()))
		f(`<p>%d states, %d transitions, depth %d</p>`, report.States, report.Transitions, report.Depth)
		if 0 < len(report.Counterexample) {
			f(`<ol class="counterexample">`)
			for _, s := range report.Counterexample {
				f(`<li><code>%s</code></li>`, html.EscapeString(s.String()))
			}
			f(`</ol>`)
		}
		f(`</div>`)
	}

	return nil
}

// RenderModelPage writes a complete HTML page for the model.
func RenderModelPage(m *core.Model, report *explore.Report, out io.Writer, cssFiles []string) error {
	if !m.Compiled() {
		return &core.ModelNotCompiled{Model: m}
	}

	if cssFiles == nil {
		cssFiles = []string{"/static/soup-html.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(m.Name))

	if report != nil && report.Graph != nil {
		js, err := json.Marshal(report.Graph)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, `  <script>
  var thisGraph = %s;
  </script>
`, js)
	}

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(m.Name))

	if err := RenderSoupHTML(m.Soup, m.Doc, report, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadModel reads a YAML model file (name, doc, source) and compiles
// it.  The file can '%inline("NAME")' files in its directory.
func ReadModel(filename string, input *core.Model) (*core.Model, error) {
	src, err := ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	var m core.Model
	if err = yaml.Unmarshal(src, &m); err != nil {
		return nil, err
	}
	if err = m.Compile(input); err != nil {
		return nil, err
	}
	return &m, nil
}

func ReadAndRenderModelPage(filename string, cssFiles []string, out io.Writer) error {
	m, err := ReadModel(filename, nil)
	if err != nil {
		return err
	}
	return RenderModelPage(m, nil, out, cssFiles)
}
