package modules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/funvibe/quill/internal/ir"
)

// ParseTypeRef parses a type reference as written in an interchange document:
//
//	int   [int]   int?   (int, string) => bool   ((int) => int)?
//
// A trailing ? binds tighter than =>, so "(int) => int?" returns a nullable int.
func ParseTypeRef(s string) (ir.TypeRef, error) {
	p := &typeRefParser{src: s}
	p.next()
	ref, err := p.parseType()
	if err != nil {
		return ir.TypeRef{}, err
	}
	if p.tok != "" {
		return ir.TypeRef{}, fmt.Errorf("type %q: unexpected %q at offset %d", s, p.tok, p.start)
	}
	return ref, nil
}

type typeRefParser struct {
	src   string
	pos   int
	tok   string // current token, "" at end of input
	start int    // offset of tok
}

func (p *typeRefParser) next() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
	p.start = p.pos
	if p.pos >= len(p.src) {
		p.tok = ""
		return
	}
	if strings.HasPrefix(p.src[p.pos:], "=>") {
		p.tok = "=>"
		p.pos += 2
		return
	}
	c := rune(p.src[p.pos])
	if !isNameRune(c) {
		p.tok = string(c)
		p.pos++
		return
	}
	end := p.pos
	for end < len(p.src) && isNameRune(rune(p.src[end])) {
		end++
	}
	p.tok = p.src[p.pos:end]
	p.pos = end
}

func isNameRune(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func (p *typeRefParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("type %q: %s at offset %d", p.src, fmt.Sprintf(format, args...), p.start)
}

func (p *typeRefParser) expect(tok string) error {
	if p.tok != tok {
		if p.tok == "" {
			return p.errorf("expected %q, got end of input", tok)
		}
		return p.errorf("expected %q, got %q", tok, p.tok)
	}
	p.next()
	return nil
}

func (p *typeRefParser) parseType() (ir.TypeRef, error) {
	base, err := p.parseBase()
	if err != nil {
		return ir.TypeRef{}, err
	}
	for p.tok == "?" {
		p.next()
		base = ir.Nullable(base)
	}
	return base, nil
}

func (p *typeRefParser) parseBase() (ir.TypeRef, error) {
	switch p.tok {
	case "":
		return ir.TypeRef{}, p.errorf("expected a type, got end of input")
	case "[":
		p.next()
		elem, err := p.parseType()
		if err != nil {
			return ir.TypeRef{}, err
		}
		if err := p.expect("]"); err != nil {
			return ir.TypeRef{}, err
		}
		return ir.ArrayOf(elem), nil
	case "(":
		return p.parseParenthesized()
	}

	if !isNameRune(rune(p.tok[0])) {
		return ir.TypeRef{}, p.errorf("unexpected %q", p.tok)
	}
	name := p.tok
	p.next()
	return ir.Named(name), nil
}

// parseParenthesized handles both a parameter list followed by => and a
// single grouped type.
func (p *typeRefParser) parseParenthesized() (ir.TypeRef, error) {
	p.next() // (
	var params []ir.TypeRef
	for p.tok != ")" {
		param, err := p.parseType()
		if err != nil {
			return ir.TypeRef{}, err
		}
		params = append(params, param)
		if p.tok != "," {
			break
		}
		p.next()
	}
	if err := p.expect(")"); err != nil {
		return ir.TypeRef{}, err
	}

	if p.tok != "=>" {
		if len(params) != 1 {
			return ir.TypeRef{}, p.errorf("expected \"=>\" after parameter list")
		}
		return params[0], nil
	}
	p.next()
	ret, err := p.parseType()
	if err != nil {
		return ir.TypeRef{}, err
	}
	return ir.FuncRef(ret, params...), nil
}
