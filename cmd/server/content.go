package main

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/stirlingqr/leadgate/web"
)

// pageContent holds the static copy rendered once at startup
type pageContent struct {
	Consent   template.HTML // Consent notice under the lead form
	NextSteps template.HTML // Follow-up instructions on the thank-you page
}

// loadPageContent renders the embedded markdown copy to HTML
func loadPageContent() (pageContent, error) {
	consent, err := renderMarkdown("content/consent.md")
	if err != nil {
		return pageContent{}, err
	}
	nextSteps, err := renderMarkdown("content/next_steps.md")
	if err != nil {
		return pageContent{}, err
	}
	return pageContent{Consent: consent, NextSteps: nextSteps}, nil
}

func renderMarkdown(name string) (template.HTML, error) {
	src, err := web.Files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
