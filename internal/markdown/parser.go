package markdown

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Parser renders provider-authored markdown (care tips, notification
// bodies). Raw HTML in the source is dropped, never passed through.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTML renders source, falling back to the escaped text in a paragraph
// when conversion fails.
func (p *Parser) HTML(source string) string {
	out, err := p.Parse([]byte(source))
	if err != nil {
		return "<p>" + html.EscapeString(source) + "</p>"
	}
	return string(out)
}
