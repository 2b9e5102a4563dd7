package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer names accepted by New.
const (
	NameInline     = "inline"
	NameCommonMark = "commonmark"
)

// CommonMark renders replies with a full CommonMark + GFM parser. Unlike
// Inline it distinguishes ordered from unordered lists and emits paragraphs.
type CommonMark struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewCommonMark creates a goldmark-backed renderer. Raw HTML in replies is
// passed through, matching the Inline renderer which never escapes.
func NewCommonMark() *CommonMark {
	return &CommonMark{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithHardWraps(),
				ghhtml.WithUnsafe(),
			),
		),
		logger: slog.Default(),
	}
}

// Render implements Renderer. If goldmark fails the reply falls back to the
// inline pipeline so a reply is always produced.
func (c *CommonMark) Render(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(text), &buf); err != nil {
		c.logger.Warn("commonmark conversion failed, using inline renderer", "error", err)
		return Render(text)
	}
	return strings.TrimSpace(buf.String())
}

// New returns the renderer registered under name.
func New(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameInline:
		return Inline{}, nil
	case NameCommonMark:
		return NewCommonMark(), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}
