package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Selectors and values are kept as
// written, so escaped class selectors survive a round trip.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	// Log parsing start with source identifier if provided
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.stop(parser, sheet) {
				return sheet
			}

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			switch atRule {
			case "@media", "@supports", "@layer", "@document":
				query := joinTokens(parser.Values())
				rules := p.parseBlockRules(parser, sheet)
				p.log.Debug("Parsed block", zap.String("at", atRule), zap.String("query", query), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					MediaBlock: &MediaBlock{At: atRule, Query: query, Rules: rules},
				})
			default:
				p.skipAtRuleBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "skipped "+atRule+" block")
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.AtRuleGrammar:
			// Simple @-rule without block (e.g., @import)
			atRule := strings.ToLower(string(data))
			if atRule == "@import" {
				if url := extractImportURL(parser.Values()); url != "" {
					sheet.Items = append(sheet.Items, StylesheetItem{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
				}
			} else {
				sheet.Warnings = append(sheet.Warnings, "skipped "+atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.BeginRulesetGrammar:
			for _, rule := range p.parseRuleset(parser, data) {
				sheet.Items = append(sheet.Items, StylesheetItem{Rule: &rule})
			}
		}
	}
}

// stop handles an error grammar: the end of input stops parsing, anything
// else is recorded and skipped.
func (p *Parser) stop(parser *css.Parser, sheet *Stylesheet) bool {
	err := parser.Err()
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	if !parser.HasParseError() {
		p.log.Debug("CSS read error", zap.Error(err))
		return true
	}
	sheet.Warnings = append(sheet.Warnings, err.Error())
	p.log.Debug("CSS parse error", zap.Error(err))
	return false
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for i, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		case css.FunctionToken:
			if strings.EqualFold(string(t.Data), "url(") && i+1 < len(tokens) {
				return unquote(string(tokens[i+1].Data))
			}
		}
	}
	return ""
}

// parseRuleset reads declarations of the current ruleset and returns one
// rule per selector of a selector list.
func (p *Parser) parseRuleset(parser *css.Parser, data []byte) []Rule {
	selectors := splitSelectors(data, parser.Values())
	decls := p.parseDeclarations(parser)
	rules := make([]Rule, 0, len(selectors))
	for _, sel := range selectors {
		rules = append(rules, Rule{Selector: sel, Declarations: decls})
	}
	return rules
}

// splitSelectors cuts a selector list at top-level commas. Escaped commas
// are part of identifier tokens and never split.
func splitSelectors(data []byte, values []css.Token) []string {
	var (
		selectors []string
		sb        strings.Builder
		depth     int
	)
	flush := func() {
		if s := strings.TrimSpace(sb.String()); s != "" {
			selectors = append(selectors, s)
		}
		sb.Reset()
	}
	sb.Write(data)
	for _, v := range values {
		switch v.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				flush()
				continue
			}
		}
		sb.Write(v.Data)
	}
	flush()
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) []Declaration {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if d, ok := declaration(string(data), parser.Values()); ok {
				decls = append(decls, d)
			}
		}
	}
}

func declaration(property string, tokens []css.Token) (Declaration, bool) {
	d := Declaration{Property: property}
	// "!" DelimToken followed by "important" IdentToken at the end
	if n := len(tokens); n >= 2 &&
		tokens[n-2].TokenType == css.DelimToken && string(tokens[n-2].Data) == "!" &&
		tokens[n-1].TokenType == css.IdentToken && strings.EqualFold(string(tokens[n-1].Data), "important") {
		d.Important = true
		tokens = tokens[:n-2]
	}
	d.Value = joinTokens(tokens)
	return d, d.Value != ""
}

// joinTokens rebuilds text from tokens. Whitespace tokens have already been
// collapsed by the parser.
func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			sb.WriteByte(' ')
			continue
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err == nil || errors.Is(err, io.EOF) || !parser.HasParseError() {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseBlockRules parses rules inside a conditional group block. Nested
// blocks are flattened into the enclosing one with a warning.
func (p *Parser) parseBlockRules(parser *css.Parser, sheet *Stylesheet) []Rule {
	var rules []Rule
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err == nil || errors.Is(err, io.EOF) || !parser.HasParseError() {
				return rules
			}
			sheet.Warnings = append(sheet.Warnings, parser.Err().Error())
		case css.EndAtRuleGrammar:
			return rules
		case css.BeginAtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "flattened nested "+strings.ToLower(string(data))+" block")
			rules = append(rules, p.parseBlockRules(parser, sheet)...)
		case css.BeginRulesetGrammar:
			rules = append(rules, p.parseRuleset(parser, data)...)
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
