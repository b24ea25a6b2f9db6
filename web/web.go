// Package web embeds the application's templates, static assets, and
// markdown content so the deployed binary is self-contained.
package web

import "embed"

//go:embed templates static content
var Files embed.FS
