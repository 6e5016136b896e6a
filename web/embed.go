// Package web embeds the browser UI served by the application.
package web

import "embed"

// Static embeds the single-page UI and its assets.
//
//go:embed static
var Static embed.FS
