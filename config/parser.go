/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package config

import (
	"fmt"
	"os"
)

// ParseError carries a file/line/column-qualified parse failure.
type ParseError struct {
	Line    int
	Col     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config:%d:%d: %s", e.Line, e.Col, e.Message)
}

type parser struct {
	toks    []token
	pos     int
	defines map[string]*Block
	seen    map[string]bool
}

// Parse tokenizes and parses src into a single implicit top-level
// Block, resolving "define NAME { ... }" and "include NAME;" /
// "include \"path\";" at parse time.
func Parse(src string) (*Block, error) {
	p := &parser{
		toks:    lex(src),
		defines: make(map[string]*Block),
		seen:    make(map[string]bool),
	}

	root := &Block{Name: "", Line: 1, Col: 1}
	if err := p.parseBlockBody(root, true); err != nil {
		return nil, err
	}

	return root, nil
}

// ParseFile reads path and parses it, resolving "include" directives
// that name a filesystem path relative to the working directory.
func ParseFile(path string) (*Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(string(data))
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance()    { p.pos++ }

func (p *parser) parseBlockBody(b *Block, top bool) error {
	for {
		t := p.cur()

		switch t.typ {
		case tokEOF:
			if top {
				return nil
			}
			return &ParseError{t.line, t.col, "unexpected end of file, expected '}'"}

		case tokBraceClose:
			if top {
				return &ParseError{t.line, t.col, "unexpected '}'"}
			}
			return nil

		case tokStr:
			if err := p.parseStatement(b); err != nil {
				return err
			}

		default:
			return &ParseError{t.line, t.col, "unexpected token"}
		}
	}
}

func (p *parser) parseStatement(b *Block) error {
	name := p.cur()
	p.advance()

	var args []string
	for p.cur().typ == tokStr {
		args = append(args, p.cur().value)
		p.advance()
	}

	switch p.cur().typ {
	case tokSemi:
		p.advance()

		if name.value == "include" {
			return p.resolveInclude(b, args, name)
		}

		b.Directives = append(b.Directives, &Directive{
			Name: name.value, Args: args, Line: name.line, Col: name.col,
		})
		return nil

	case tokBraceOpen:
		p.advance()

		child := &Block{Name: name.value, Args: args, Line: name.line, Col: name.col}
		isDefine := name.value == "define" && len(args) == 1
		if isDefine {
			p.seen[args[0]] = true
		}
		if err := p.parseBlockBody(child, false); err != nil {
			return err
		}
		if isDefine {
			p.seen[args[0]] = false
		}

		if p.cur().typ != tokBraceClose {
			return &ParseError{p.cur().line, p.cur().col, "expected '}'"}
		}
		p.advance()

		if name.value == "define" {
			if len(args) != 1 {
				return &ParseError{name.line, name.col, "define requires exactly one name"}
			}
			p.defines[args[0]] = child
			return nil
		}

		b.Blocks = append(b.Blocks, child)
		return nil

	default:
		return &ParseError{p.cur().line, p.cur().col, "expected ';' or '{'"}
	}
}

// resolveInclude splices a previously-defined block's directives and
// blocks into b, or reads and re-parses a file's contents, failing on
// a cycle or an unknown reference.
func (p *parser) resolveInclude(b *Block, args []string, tok token) error {
	if len(args) != 1 {
		return &ParseError{tok.line, tok.col, "include requires exactly one argument"}
	}

	ref := args[0]

	if def, ok := p.defines[ref]; ok {
		if p.seen[ref] {
			return &ParseError{tok.line, tok.col, "include cycle detected for " + ref}
		}

		p.seen[ref] = true
		b.Directives = append(b.Directives, def.Directives...)
		b.Blocks = append(b.Blocks, def.Blocks...)
		p.seen[ref] = false
		return nil
	}

	if p.seen[ref] {
		return &ParseError{tok.line, tok.col, "include cycle detected for " + ref}
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return &ParseError{tok.line, tok.col, "include: " + err.Error()}
	}

	p.seen[ref] = true
	sub := &parser{toks: lex(string(data)), defines: p.defines, seen: p.seen}

	included := &Block{}
	if err := sub.parseBlockBody(included, true); err != nil {
		return err
	}

	b.Directives = append(b.Directives, included.Directives...)
	b.Blocks = append(b.Blocks, included.Blocks...)
	p.seen[ref] = false

	return nil
}
