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

import "unicode"

type tokenType uint8

const (
	tokStr tokenType = iota
	tokBraceOpen
	tokBraceClose
	tokSemi
	tokEOF
)

type token struct {
	typ   tokenType
	value string
	line  int
	col   int
}

// lex tokenizes src into STR/BRACE_OPEN/BRACE_CLOSE/SEMI/EOF tokens,
// stripping '#'-to-end-of-line comments and whitespace. The whole
// file is treated as an implicit top-level block by the parser, not
// the lexer, mirroring the two-stage split of the original lexer and
// recursive-descent parser.
func lex(src string) []token {
	var toks []token

	line, col := 1, 1
	i := 0
	n := len(src)

	advance := func(c byte) {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	for i < n {
		c := src[i]

		switch {
		case c == '#':
			for i < n && src[i] != '\n' {
				advance(src[i])
				i++
			}
			continue

		case unicode.IsSpace(rune(c)):
			advance(c)
			i++
			continue

		case c == '{':
			toks = append(toks, token{typ: tokBraceOpen, line: line, col: col})
			advance(c)
			i++

		case c == '}':
			toks = append(toks, token{typ: tokBraceClose, line: line, col: col})
			advance(c)
			i++

		case c == ';':
			toks = append(toks, token{typ: tokSemi, line: line, col: col})
			advance(c)
			i++

		case c == '"' || c == '\'':
			quote := c
			startLine, startCol := line, col
			advance(c)
			i++
			start := i
			for i < n && src[i] != quote {
				advance(src[i])
				i++
			}
			val := src[start:i]
			if i < n {
				advance(src[i])
				i++
			}
			toks = append(toks, token{typ: tokStr, value: val, line: startLine, col: startCol})

		default:
			startLine, startCol := line, col
			start := i
			for i < n && !isBoundary(src[i]) {
				advance(src[i])
				i++
			}
			toks = append(toks, token{typ: tokStr, value: src[start:i], line: startLine, col: startCol})
		}
	}

	toks = append(toks, token{typ: tokEOF, line: line, col: col})
	return toks
}

func isBoundary(c byte) bool {
	if unicode.IsSpace(rune(c)) {
		return true
	}
	switch c {
	case '{', '}', ';', '#':
		return true
	}
	return false
}
