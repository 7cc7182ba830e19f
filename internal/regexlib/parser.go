package regexlib

// parser is a single left-to-right LL(1) pass over the token stream.
type parser struct {
	toks  []token
	i     int
	look  token
	depth int // open groups
}

func (p *parser) scan() {
	if p.i < len(p.toks)-1 {
		p.i++
	}
	p.look = p.toks[p.i]
}

// Parse turns a pattern into its syntax tree.
//
//	expression := term ('|' term)*
//	term       := factor*
//	factor     := (literal | '(' expression ')') ('*' | '+')?
//
// A term with no factors is a NodeEmpty matching only "", so "" and "a||b"
// and "()" all parse. The exception is a term cut off by the end of the
// input after '|' or '(', which is UnexpectedEndOfInput. On failure the
// returned error is a *ParseError and no tree is returned.
func Parse(pattern string) (*Node, error) {
	toks, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}
	if toks[0].typ == tEOF {
		return &Node{Kind: NodeEmpty}, nil
	}
	p := &parser{toks: toks, look: toks[0]}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.look.typ != tEOF {
		// parseExpr only stops early on a ')' nobody opened
		return nil, &ParseError{Kind: UnmatchedParenthesis, Pos: p.look.pos}
	}
	return n, nil
}

func (p *parser) parseExpr() (*Node, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	terms := []*Node{first}
	for p.look.typ == tUnion {
		p.scan()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return listNode(NodeUnion, terms), nil
}

func (p *parser) parseTerm() (*Node, error) {
	var factors []*Node
	for p.look.typ != tEOF && p.look.typ != tRParen && p.look.typ != tUnion {
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	if len(factors) == 0 {
		switch {
		case p.look.typ == tEOF:
			return nil, &ParseError{Kind: UnexpectedEndOfInput, Pos: p.look.pos}
		case p.look.typ == tRParen && p.depth == 0:
			return nil, &ParseError{Kind: UnmatchedParenthesis, Pos: p.look.pos}
		}
		return &Node{Kind: NodeEmpty}, nil
	}
	return listNode(NodeConcat, factors), nil
}

func (p *parser) parseFactor() (*Node, error) {
	var n *Node
	switch p.look.typ {
	case tEOF:
		return nil, &ParseError{Kind: UnexpectedEndOfInput, Pos: p.look.pos}
	case tLParen:
		p.scan()
		p.depth++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.look.typ != tRParen {
			return nil, &ParseError{Kind: UnmatchedParenthesis, Pos: p.look.pos}
		}
		p.depth--
		p.scan()
		n = inner
	default:
		// '*' and '+' with nothing to repeat are plain symbols
		n = symbolNode(p.look.ch)
		p.scan()
	}

	switch p.look.typ {
	case tStar:
		n = &Node{Kind: NodeStar, Children: []*Node{n}}
		p.scan()
	case tPlus:
		n = &Node{Kind: NodePlus, Children: []*Node{n}}
		p.scan()
	}
	return n, nil
}
