// Package web provides the embedded viewer page files.
package web

import "embed"

// FS contains the embedded viewer page (index.html, static/css, static/js).
// This is exported for use by the HTTP handler serving /web.
//
//go:embed index.html static
var FS embed.FS
