// Package markdown derives presentation fields from markdown content.
package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const maxTitleLength = 120

// Service parses markdown documents.
type Service struct {
	md goldmark.Markdown
}

// NewService creates a markdown service.
func NewService() *Service {
	return &Service{
		md: goldmark.New(),
	}
}

// ExtractTitle returns the text of the first heading in content, falling
// back to the first non-empty line. The result is trimmed and truncated;
// empty content yields an empty title.
func (s *Service) ExtractTitle(content string) string {
	src := []byte(content)
	doc := s.md.Parser().Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.Heading); ok {
			title = nodeText(n, src)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if title == "" {
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(line, "# "))
			if line != "" {
				title = line
				break
			}
		}
	}
	return truncate(strings.TrimSpace(title), maxTitleLength)
}

func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
