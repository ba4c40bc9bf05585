// Package scan extracts candidate class names from source files. It is
// deliberately permissive: every candidate is checked by the engine, which
// drops whatever is not a utility class.
package scan

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"ucc/common"
)

// DefaultAttributes are the markup attributes holding class lists.
var DefaultAttributes = []string{"class", "classname", "class:list"}

// Scanner extracts class name candidates.
type Scanner struct {
	log   *zap.Logger
	attrs []string
}

// New creates a scanner looking at the given markup attributes, or at
// DefaultAttributes when none are given. Attribute names are matched case
// insensitively and without namespace prefix.
func New(log *zap.Logger, attrs ...string) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	if len(attrs) == 0 {
		attrs = DefaultAttributes
	}
	lower := make([]string, 0, len(attrs))
	for _, a := range attrs {
		lower = append(lower, strings.ToLower(a))
	}
	return &Scanner{log: log.Named("scan"), attrs: lower}
}

// Scan returns candidates found in data in order of first appearance,
// without duplicates. name is used to detect the format when format is
// SourceFormatAuto, and for logging.
func (s *Scanner) Scan(name string, data []byte, format common.SourceFormat) ([]string, error) {
	c := &collector{seen: map[string]struct{}{}}

	switch f := format.Detect(name); f {
	case common.SourceFormatHtml:
		if err := s.scanHTML(c, data); err != nil {
			return nil, fmt.Errorf("unable to scan %s as html: %w", name, err)
		}
	case common.SourceFormatXml:
		if err := s.scanXML(c, data); err != nil {
			return nil, fmt.Errorf("unable to scan %s as xml: %w", name, err)
		}
	default:
		scanText(c, data)
	}

	s.log.Debug("Scanned source", zap.String("source", name), zap.Int("candidates", len(c.out)))
	return c.out, nil
}

func (s *Scanner) wanted(attr string) bool {
	attr = strings.ToLower(attr)
	if i := strings.LastIndexByte(attr, ':'); i >= 0 && !slices.Contains(s.attrs, attr) {
		attr = attr[i+1:]
	}
	return slices.Contains(s.attrs, attr)
}

// scanHTML walks the token stream of an HTML document. Inline svg and math
// islands are handed to the XML scanner.
func (s *Scanner) scanHTML(c *collector, data []byte) error {
	l := html.NewLexer(parse.NewInput(bytes.NewReader(data)))
	for {
		tt, raw := l.Next()
		switch tt {
		case html.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return err
			}
			return nil
		case html.AttributeToken:
			if s.wanted(string(l.AttrKey())) {
				c.fields(unquote(l.AttrVal()))
			}
		case html.SVGToken, html.MathToken, html.XMLToken:
			if err := s.scanXML(c, raw); err != nil {
				s.log.Debug("Unable to scan embedded markup", zap.Error(err))
			}
		}
	}
}

func (s *Scanner) scanXML(c *collector, data []byte) error {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return err
	}
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, a := range e.Attr {
			if s.wanted(a.FullKey()) {
				c.fields([]byte(a.Value))
			}
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	if root := doc.Root(); root != nil {
		walk(root)
	}
	return nil
}

// scanText splits arbitrary text at whitespace, quotes and angle brackets.
func scanText(c *collector, data []byte) {
	for _, f := range bytes.FieldsFunc(data, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("\"'`<>", r)
	}) {
		c.add(string(f))
	}
}

type collector struct {
	out  []string
	seen map[string]struct{}
}

func (c *collector) fields(value []byte) {
	for _, f := range bytes.Fields(value) {
		c.add(string(f))
	}
}

func (c *collector) add(candidate string) {
	if candidate == "" {
		return
	}
	if _, ok := c.seen[candidate]; ok {
		return
	}
	c.seen[candidate] = struct{}{}
	c.out = append(c.out, candidate)
}

func unquote(b []byte) []byte {
	if n := len(b); n >= 2 && (b[0] == '"' || b[0] == '\'') && b[n-1] == b[0] {
		return b[1 : n-1]
	}
	return b
}
