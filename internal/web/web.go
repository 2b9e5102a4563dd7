// Package web holds the single-page chat UI served at the root path.
package web

import _ "embed"

// IndexHTML is the chat page. It talks to the JSON API under /api.
//
//go:embed index.html
var IndexHTML string
