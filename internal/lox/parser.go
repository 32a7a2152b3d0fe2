package lox

// Parser composes the syntax tree for the Lox language from the sequence of
// tokens produced by the scanner, following this grammar:
//
//	program     --> declaration* EOF ;
//	declaration --> classDecl | funDecl | varDecl | statement ;
//	classDecl   --> "class" IDENTIFIER ( "<" IDENTIFIER )? "{" function* "}" ;
//	funDecl     --> "fun" function ;
//	function    --> IDENTIFIER "(" parameters? ")" block ;
//	parameters  --> IDENTIFIER ( "," IDENTIFIER )* ;
//	varDecl     --> "var" IDENTIFIER ( "=" expression )? ";" ;
//	statement   --> exprStmt | forStmt | ifStmt | printStmt
//	              | returnStmt | whileStmt | block ;
//	forStmt     --> "for" "(" ( varDecl | exprStmt | ";" )
//	                expression? ";" expression? ")" statement ;
//	ifStmt      --> "if" "(" expression ")" statement ( "else" statement )? ;
//	printStmt   --> "print" expression ";" ;
//	returnStmt  --> "return" expression? ";" ;
//	whileStmt   --> "while" "(" expression ")" statement ;
//	block       --> "{" declaration* "}" ;
//	exprStmt    --> expression ";" ;
//	expression  --> assignment ;
//	assignment  --> ( call "." )? IDENTIFIER "=" assignment
//	              | logic_or ;
//	logic_or    --> logic_and ( "or" logic_and )* ;
//	logic_and   --> equality ( "and" equality )* ;
//	equality    --> comparison ( ( "!=" | "==" ) comparison )* ;
//	comparison  --> term ( ( ">" | ">=" | "<" | "<=" ) term )* ;
//	term        --> factor ( ( "-" | "+" ) factor )* ;
//	factor      --> unary ( ( "/" | "*" ) unary )* ;
//	unary       --> ( "!" | "-" ) unary | call ;
//	call        --> primary ( "(" arguments? ")" | "." IDENTIFIER )* ;
//	arguments   --> expression ( "," expression )* ;
//	primary     --> NUMBER | STRING | "true" | "false" | "nil" | "this"
//	              | "(" expression ")" | IDENTIFIER | "super" "." IDENTIFIER ;
const maxArgs = 255

type Parser struct {
	current  int
	tokens   []*Token
	reporter Reporter
}

// NewParser creates a new parser for the Lox language.
func NewParser(tokens []*Token, reporter Reporter) *Parser {
	return &Parser{0, tokens, reporter}
}

// Parse consumes every token and returns the program as a list of
// statements. A statement that fails to parse is skipped after
// synchronizing to a likely statement boundary, so a single syntax error
// doesn't stop the parser from finding others in the same source.
func (parser *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !parser.isEOF() {
		stmt, err := parser.declaration()
		if err != nil {
			parser.reporter.Report(err)
			parser.sync()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (parser *Parser) declaration() (Stmt, error) {
	if parser.match(CLASS) {
		return parser.classDeclaration()
	}
	if parser.match(FUN) {
		return parser.function("function")
	}
	if parser.match(VAR) {
		return parser.varDeclaration()
	}
	return parser.statement()
}

func (parser *Parser) classDeclaration() (Stmt, error) {
	name, err := parser.consumeIdent("Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *VarExpr
	if parser.match(LESS) {
		superclassName, err := parser.consumeIdent("Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = NewVarExpr(superclassName)
	}

	if err := parser.consume(LEFT_BRACE, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	var methods []*FunctionStmt
	for !parser.check(RIGHT_BRACE) && !parser.isEOF() {
		method, err := parser.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method.(*FunctionStmt))
	}

	if err := parser.consume(RIGHT_BRACE, "Expect '}' after class body."); err != nil {
		return nil, err
	}

	return NewClassStmt(name, superclass, methods), nil
}

func (parser *Parser) function(kind string) (Stmt, error) {
	name, err := parser.consumeIdent("Expect " + kind + " name.")
	if err != nil {
		return nil, err
	}

	if err := parser.consume(LEFT_PAREN, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	var params []*Token
	if !parser.check(RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				parser.reporter.Report(NewParseError(parser.peek(), "Can't have more than 255 parameters."))
			}
			param, err := parser.consumeIdent("Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !parser.match(COMMA) {
				break
			}
		}
	}
	if err := parser.consume(RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if err := parser.consume(LEFT_BRACE, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := parser.block()
	if err != nil {
		return nil, err
	}

	return NewFunctionStmt(name, params, body), nil
}

func (parser *Parser) varDeclaration() (Stmt, error) {
	name, err := parser.consumeIdent("Expect variable name.")
	if err != nil {
		return nil, err
	}

	var init Expr
	if parser.match(EQUAL) {
		init, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}

	if err := parser.consume(SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return NewVarStmt(name, init), nil
}

func (parser *Parser) statement() (Stmt, error) {
	if parser.match(FOR) {
		return parser.forStatement()
	}
	if parser.match(IF) {
		return parser.ifStatement()
	}
	if parser.match(PRINT) {
		return parser.printStatement()
	}
	if parser.match(RETURN) {
		return parser.returnStatement()
	}
	if parser.match(WHILE) {
		return parser.whileStatement()
	}
	if parser.match(LEFT_BRACE) {
		stmts, err := parser.block()
		if err != nil {
			return nil, err
		}
		return NewBlockStmt(stmts), nil
	}
	return parser.exprStatement()
}

// forStatement desugars the for loop into a block containing the
// initializer followed by a while loop, rather than adding a dedicated
// ForStmt node to the tree.
func (parser *Parser) forStatement() (Stmt, error) {
	if err := parser.consume(LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	if parser.match(SEMICOLON) {
		init = nil
	} else if parser.match(VAR) {
		init, err = parser.varDeclaration()
	} else {
		init, err = parser.exprStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !parser.check(SEMICOLON) {
		cond, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if err := parser.consume(SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr Expr
	if !parser.check(RIGHT_PAREN) {
		incr, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if err := parser.consume(RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := parser.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = NewBlockStmt([]Stmt{body, NewExprStmt(incr)})
	}
	if cond == nil {
		cond = NewLiteralExpr(true)
	}
	body = NewWhileStmt(cond, body)

	if init != nil {
		body = NewBlockStmt([]Stmt{init, body})
	}

	return body, nil
}

func (parser *Parser) ifStatement() (Stmt, error) {
	if err := parser.consume(LEFT_PAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if err := parser.consume(RIGHT_PAREN, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	thenBranch, err := parser.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if parser.match(ELSE) {
		elseBranch, err = parser.statement()
		if err != nil {
			return nil, err
		}
	}

	return NewIfStmt(cond, thenBranch, elseBranch), nil
}

func (parser *Parser) printStatement() (Stmt, error) {
	val, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if err := parser.consume(SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return NewPrintStmt(val), nil
}

func (parser *Parser) returnStatement() (Stmt, error) {
	keyword := parser.prev()
	var val Expr
	var err error
	if !parser.check(SEMICOLON) {
		val, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if err := parser.consume(SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return NewReturnStmt(keyword, val), nil
}

func (parser *Parser) whileStatement() (Stmt, error) {
	if err := parser.consume(LEFT_PAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if err := parser.consume(RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := parser.statement()
	if err != nil {
		return nil, err
	}
	return NewWhileStmt(cond, body), nil
}

func (parser *Parser) block() ([]Stmt, error) {
	var stmts []Stmt
	for !parser.check(RIGHT_BRACE) && !parser.isEOF() {
		stmt, err := parser.declaration()
		if err != nil {
			parser.reporter.Report(err)
			parser.sync()
			continue
		}
		stmts = append(stmts, stmt)
	}
	if err := parser.consume(RIGHT_BRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (parser *Parser) exprStatement() (Stmt, error) {
	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if err := parser.consume(SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return NewExprStmt(expr), nil
}

func (parser *Parser) expression() (Expr, error) {
	return parser.assignment()
}

// assignment parses its left-hand side as a full expression and only then
// checks whether it names an assignable target, rather than trying to
// predict the target's shape up front. That's what lets `a.b.c = 1` and
// `a = 1` share a grammar rule.
func (parser *Parser) assignment() (Expr, error) {
	expr, err := parser.or()
	if err != nil {
		return nil, err
	}

	if parser.match(EQUAL) {
		equals := parser.prev()
		val, err := parser.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *VarExpr:
			return NewAssignExpr(target.Name, val), nil
		case *GetExpr:
			return NewSetExpr(target.Obj, target.Name, val), nil
		}
		parser.reporter.Report(NewParseError(equals, "Invalid assignment target."))
		return expr, nil
	}

	return expr, nil
}

func (parser *Parser) or() (Expr, error) {
	expr, err := parser.and()
	if err != nil {
		return nil, err
	}
	for parser.match(OR) {
		op := parser.prev()
		right, err := parser.and()
		if err != nil {
			return nil, err
		}
		expr = NewLogicalExpr(op, expr, right)
	}
	return expr, nil
}

func (parser *Parser) and() (Expr, error) {
	expr, err := parser.equality()
	if err != nil {
		return nil, err
	}
	for parser.match(AND) {
		op := parser.prev()
		right, err := parser.equality()
		if err != nil {
			return nil, err
		}
		expr = NewLogicalExpr(op, expr, right)
	}
	return expr, nil
}

func (parser *Parser) equality() (Expr, error) {
	expr, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.match(BANG_EQUAL, EQUAL_EQUAL) {
		op := parser.prev()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		expr = NewBinaryExpr(op, expr, right)
	}
	return expr, nil
}

func (parser *Parser) comparison() (Expr, error) {
	expr, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.match(GREATER, GREATER_EQUAL, LESS, LESS_EQUAL) {
		op := parser.prev()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		expr = NewBinaryExpr(op, expr, right)
	}
	return expr, nil
}

func (parser *Parser) term() (Expr, error) {
	expr, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.match(MINUS, PLUS) {
		op := parser.prev()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		expr = NewBinaryExpr(op, expr, right)
	}
	return expr, nil
}

func (parser *Parser) factor() (Expr, error) {
	expr, err := parser.unary()
	if err != nil {
		return nil, err
	}
	for parser.match(SLASH, STAR) {
		op := parser.prev()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		expr = NewBinaryExpr(op, expr, right)
	}
	return expr, nil
}

func (parser *Parser) unary() (Expr, error) {
	if parser.match(BANG, MINUS) {
		op := parser.prev()
		expr, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return NewUnaryExpr(op, expr), nil
	}
	return parser.call()
}

func (parser *Parser) call() (Expr, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}

	for {
		if parser.match(LEFT_PAREN) {
			expr, err = parser.finishCall(expr)
			if err != nil {
				return nil, err
			}
		} else if parser.match(DOT) {
			name, err := parser.consumeIdent("Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = NewGetExpr(expr, name)
		} else {
			break
		}
	}

	return expr, nil
}

func (parser *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !parser.check(RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				parser.reporter.Report(NewParseError(parser.peek(), "Can't have more than 255 arguments."))
			}
			arg, err := parser.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !parser.match(COMMA) {
				break
			}
		}
	}

	paren, err := parser.consumeTok(RIGHT_PAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}

	return NewCallExpr(callee, paren, args), nil
}

func (parser *Parser) primary() (Expr, error) {
	if parser.match(FALSE) {
		return NewLiteralExpr(false), nil
	}
	if parser.match(TRUE) {
		return NewLiteralExpr(true), nil
	}
	if parser.match(NIL) {
		return NewLiteralExpr(nil), nil
	}
	if parser.match(NUMBER, STRING) {
		return NewLiteralExpr(parser.prev().Literal), nil
	}
	if parser.match(SUPER) {
		keyword := parser.prev()
		if err := parser.consume(DOT, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := parser.consumeIdent("Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return NewSuperExpr(keyword, method), nil
	}
	if parser.match(THIS) {
		return NewThisExpr(parser.prev()), nil
	}
	if parser.match(IDENTIFIER) {
		return NewVarExpr(parser.prev()), nil
	}
	if parser.match(LEFT_PAREN) {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if err := parser.consume(RIGHT_PAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return NewGroupExpr(expr), nil
	}
	return nil, NewParseError(parser.peek(), "Expect expression.")
}

func (parser *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if parser.check(tt) {
			parser.advance()
			return true
		}
	}
	return false
}

func (parser *Parser) consume(typ TokenType, message string) error {
	if parser.check(typ) {
		parser.advance()
		return nil
	}
	return NewParseError(parser.peek(), message)
}

func (parser *Parser) consumeTok(typ TokenType, message string) (*Token, error) {
	if parser.check(typ) {
		return parser.advance(), nil
	}
	return nil, NewParseError(parser.peek(), message)
}

func (parser *Parser) consumeIdent(message string) (*Token, error) {
	return parser.consumeTok(IDENTIFIER, message)
}

func (parser *Parser) check(tt TokenType) bool {
	if parser.isEOF() {
		return false
	}
	return parser.peek().Typ == tt
}

func (parser *Parser) advance() *Token {
	if !parser.isEOF() {
		parser.current++
	}
	return parser.prev()
}

func (parser *Parser) isEOF() bool {
	return parser.peek().Typ == EOF
}

func (parser *Parser) peek() *Token {
	return parser.tokens[parser.current]
}

func (parser *Parser) prev() *Token {
	return parser.tokens[parser.current-1]
}

// sync discards tokens until it reaches a likely statement boundary, so a
// single parse error doesn't cascade into a wall of spurious follow-on
// errors.
func (parser *Parser) sync() {
	parser.advance()
	for !parser.isEOF() {
		if parser.prev().Typ == SEMICOLON {
			return
		}
		switch parser.peek().Typ {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		parser.advance()
	}
}
