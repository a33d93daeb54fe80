package bnd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/biocircuits/boolnet/pkg/model"
)

// Parser builds a model.Network from .bnd source.
//
// The recognized grammar:
//
//	file  := node*
//	node  := "node" IDENT "{" attr* "}"
//	attr  := IDENT "=" value ";"
//
// Only the "logic" attribute is interpreted; it must be a Boolean expression
// over node names using !, &, | and parentheses. Other attributes (rate_up,
// rate_down, istate, ...) are tolerated and skipped. A node without a logic
// attribute, or whose logic is exactly its own name, is an input node.
type Parser struct {
	lexer *Lexer
	tok   Token
}

// LoadFile reads and parses a .bnd file. The network name is derived from
// the file name, matching how reports title the analyzed model.
func LoadFile(path string) (*model.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, string(data))
}

// Parse parses .bnd source into a network. Dangling regulator references are
// a load error: the loader fails fast rather than handing the engine a model
// that references genes it does not define.
func Parse(name, source string) (*model.Network, error) {
	p := &Parser{lexer: NewLexer(source)}
	p.next()

	var nodes []model.Node
	for p.tok.Type != TokenEOF {
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	nw, err := model.NewNetwork(name, nodes)
	if err != nil {
		return nil, err
	}

	if dangling := nw.DanglingRegulators(); dangling != nil {
		for node, refs := range dangling {
			return nil, fmt.Errorf("node %q: rule references undefined node(s) %s",
				node, strings.Join(refs, ", "))
		}
	}
	return nw, nil
}

func (p *Parser) next() { p.tok = p.lexer.Next() }

func (p *Parser) expect(t TokenType, what string) (Token, error) {
	if p.tok.Type != t {
		return Token{}, fmt.Errorf("line %d: expected %s, got %s", p.tok.Line, what, describe(p.tok))
	}
	tok := p.tok
	p.next()
	return tok, nil
}

func (p *Parser) parseNode() (model.Node, error) {
	if _, err := p.expect(TokenNode, "'node'"); err != nil {
		return model.Node{}, err
	}
	nameTok, err := p.expect(TokenIdentifier, "node name")
	if err != nil {
		return model.Node{}, err
	}
	if _, err := p.expect(TokenLeftBrace, "'{'"); err != nil {
		return model.Node{}, err
	}

	var rule model.Expr
	haveLogic := false
	for p.tok.Type != TokenRightBrace {
		if p.tok.Type == TokenEOF {
			return model.Node{}, fmt.Errorf("line %d: unterminated node %q", p.tok.Line, nameTok.Value)
		}
		attrTok, err := p.expect(TokenIdentifier, "attribute name")
		if err != nil {
			return model.Node{}, err
		}
		if _, err := p.expect(TokenEquals, "'='"); err != nil {
			return model.Node{}, err
		}

		if attrTok.Value == "logic" {
			expr, err := p.parseExpr()
			if err != nil {
				return model.Node{}, fmt.Errorf("node %q: %w", nameTok.Value, err)
			}
			rule = expr
			haveLogic = true
		} else {
			p.skipAttributeValue()
		}
		if _, err := p.expect(TokenSemicolon, "';'"); err != nil {
			return model.Node{}, err
		}
	}
	p.next() // consume '}'

	// `logic = X;` inside node X is the MaBoSS convention for an
	// externally-driven input.
	if haveLogic {
		if ident, ok := rule.(*model.IdentExpr); ok && ident.Name == nameTok.Value {
			haveLogic = false
		}
	}

	if !haveLogic {
		return model.Node{Name: nameTok.Value, Kind: model.KindInput}, nil
	}
	return model.Node{Name: nameTok.Value, Kind: model.KindLogic, Rule: rule}, nil
}

// skipAttributeValue discards tokens up to (not including) the terminating
// semicolon. Rate expressions contain arithmetic the engine never needs.
func (p *Parser) skipAttributeValue() {
	for p.tok.Type != TokenSemicolon && p.tok.Type != TokenEOF {
		p.next()
	}
}

// parseExpr parses a Boolean expression with | binding loosest, then &,
// then !, then primaries.
func (p *Parser) parseExpr() (model.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (model.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &model.OrExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (model.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &model.AndExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (model.Expr, error) {
	if p.tok.Type == TokenNot {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &model.NotExpr{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (model.Expr, error) {
	switch p.tok.Type {
	case TokenIdentifier:
		name := p.tok.Value
		p.next()
		return &model.IdentExpr{Name: name}, nil
	case TokenTrue:
		p.next()
		return &model.ConstExpr{Value: true}, nil
	case TokenFalse:
		p.next()
		return &model.ConstExpr{Value: false}, nil
	case TokenNumber:
		value := p.tok.Value
		p.next()
		switch value {
		case "0":
			return &model.ConstExpr{Value: false}, nil
		case "1":
			return &model.ConstExpr{Value: true}, nil
		default:
			return nil, fmt.Errorf("line %d: numeric literal %q is not a Boolean constant", p.tok.Line, value)
		}
	case TokenLeftParen:
		p.next()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, fmt.Errorf("line %d: unexpected %s in logic expression", p.tok.Line, describe(p.tok))
	}
}
