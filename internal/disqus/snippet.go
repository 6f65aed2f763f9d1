package disqus

import (
	_ "embed"
	"fmt"
	"html"
)

// ScriptPath is where the loader script lives relative to the output root.
const ScriptPath = "_static/disqus.js"

// Script is the client-side loader referenced by every snippet.
//
//go:embed static/disqus.js
var Script []byte

// Snippet returns the thread container and the loader script tag.
func Snippet(shortname, identifier, scriptSrc string) string {
	return fmt.Sprintf(`<div id="disqus_thread" data-disqus-shortname="%s" data-disqus-identifier="%s"></div>
<script type="text/javascript" src="%s"></script>
`, html.EscapeString(shortname), html.EscapeString(identifier), html.EscapeString(scriptSrc))
}
