// Package web embeds the static front-end page.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
