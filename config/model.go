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

// Package config parses the nginx-style nested-block configuration
// grammar and binds it into the typed server/location rules the
// engine matches requests against.
package config

// Directive is one "name arg...;" statement inside a Block.
type Directive struct {
	Name string
	Args []string
	Line int
	Col  int
}

// Block is a "name arg... { ... }" grouping of directives and nested
// blocks (server, location, http, define).
type Block struct {
	Name       string
	Args       []string
	Directives []*Directive
	Blocks     []*Block
	Line       int
	Col        int
}

// Get returns the first directive named n directly under b.
func (b *Block) Get(n string) *Directive {
	for _, d := range b.Directives {
		if d.Name == n {
			return d
		}
	}
	return nil
}

// All returns every directive named n directly under b, in order.
func (b *Block) All(n string) []*Directive {
	var out []*Directive
	for _, d := range b.Directives {
		if d.Name == n {
			out = append(out, d)
		}
	}
	return out
}

// Children returns every nested block named n, in order.
func (b *Block) Children(n string) []*Block {
	var out []*Block
	for _, c := range b.Blocks {
		if c.Name == n {
			out = append(out, c)
		}
	}
	return out
}
