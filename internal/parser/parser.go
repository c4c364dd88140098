package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/graindb/graindb/internal/graindb"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	ErrInvalidStatementKind = errors.NewKind("invalid statement kind")
	ErrEmptyTableName       = errors.NewKind("table name cannot be empty")
	ErrExpectedSemicolon    = errors.NewKind("expected semicolon")
)

var reservedWords = []string{
	// operators, longest first so prefixes don't shadow them
	"(", ")", ">=", "<=", "<>", "!=", ",", "=", ">", "<", ".", ";", "*",
	// column types
	"INT", "FLOAT", "CHAR(",
	// aggregate functions
	"COUNT(*)", "COUNT(", "SUM(", "AVG(", "MAX(", "MIN(",
	// statement types
	"CREATE TABLE", "DROP TABLE", "CREATE INDEX", "DROP INDEX",
	"SELECT", "INSERT INTO", "VALUES", "UPDATE", "DELETE FROM", "SET",
	// statement other
	"WHERE", "FROM", "GROUP BY", "HAVING", "ORDER BY", "ASC", "DESC",
	"AS", "AND", "TRUE", "FALSE",
}

type step int

const (
	stepBeginning step = iota + 1
	stepCreateTableName
	stepCreateTableOpeningParens
	stepCreateTableColumn
	stepCreateTableColumnType
	stepCreateTableCharLength
	stepCreateTableCommaOrClosingParens
	stepDropTableName
	stepIndexTableName
	stepIndexOpeningParens
	stepIndexColumn
	stepIndexCommaOrClosingParens
	stepInsertTable
	stepInsertValuesRWord
	stepInsertValuesOpeningParens
	stepInsertValue
	stepInsertCommaOrClosingParens
	stepUpdateTable
	stepUpdateSet
	stepUpdateField
	stepUpdateEquals
	stepUpdateValue
	stepUpdateCommaOrWhere
	stepDeleteFromTable
	stepSelectField
	stepSelectComma
	stepSelectFrom
	stepSelectFromTable
	stepSelectFromComma
	stepGroupByField
	stepGroupByComma
	stepOrderByField
	stepOrderByComma
	stepSetKnobName
	stepSetEquals
	stepSetValue
	stepWhere
	stepWhereConditionLhs
	stepWhereConditionOperator
	stepWhereConditionRhs
	stepWhereAnd
	stepStatementEnd
)

// condTarget routes parsed conditions to the WHERE or the HAVING list.
type condTarget int

const (
	targetWhere condTarget = iota + 1
	targetHaving
)

type stmtKind int

const (
	kindUnknown stmtKind = iota
	kindCreateTable
	kindDropTable
	kindCreateIndex
	kindDropIndex
	kindInsert
	kindDelete
	kindUpdate
	kindSelect
	kindSet
)

type parserItem struct {
	i    int // where we are in the query
	sql  string
	step step

	kind       stmtKind
	tableName  string
	colDefs    []graindb.TableField
	nextColDef graindb.ColDef
	indexCols  []string

	insertValues []any

	sets          []graindb.RawSetClause
	nextSetColumn string

	selCols  []graindb.RawCol
	selAggs  []graindb.RawAgg
	star     bool
	tables   []string
	where    []graindb.RawCond
	groupBy  []graindb.RawCol
	having   []graindb.RawCond
	orderBy  []graindb.RawCol
	orderDir graindb.Direction
	hasSort  bool

	condTarget condTarget

	knobName  string
	knobValue bool
}

func New() *parserItem {
	return new(parserItem)
}

func (p *parserItem) Parse(ctx context.Context, sql string) ([]graindb.Statement, error) {
	sql = strings.Join(strings.Fields(sql), " ")
	p.reset()
	p.sql = strings.TrimSpace(sql)
	return p.doParse()
}

func (p *parserItem) reset() {
	*p = parserItem{step: stepBeginning}
}

func (p *parserItem) resetStatement() {
	sql, i := p.sql, p.i
	p.reset()
	p.sql, p.i = sql, i
}

func (p *parserItem) doParse() ([]graindb.Statement, error) {
	var statements []graindb.Statement
	for p.i < len(p.sql) {
		switch p.step {
		// -----------------
		// QUERY TYPE
		//------------------
		case stepBeginning:
			switch strings.ToUpper(p.peek()) {
			case "CREATE TABLE":
				p.kind = kindCreateTable
				p.pop()
				p.step = stepCreateTableName
			case "DROP TABLE":
				p.kind = kindDropTable
				p.pop()
				p.step = stepDropTableName
			case "CREATE INDEX":
				p.kind = kindCreateIndex
				p.pop()
				p.step = stepIndexTableName
			case "DROP INDEX":
				p.kind = kindDropIndex
				p.pop()
				p.step = stepIndexTableName
			case "SELECT":
				p.kind = kindSelect
				p.pop()
				p.step = stepSelectField
			case "INSERT INTO":
				p.kind = kindInsert
				p.pop()
				p.step = stepInsertTable
			case "UPDATE":
				p.kind = kindUpdate
				p.pop()
				p.step = stepUpdateTable
			case "DELETE FROM":
				p.kind = kindDelete
				p.pop()
				p.step = stepDeleteFromTable
			case "SET":
				p.kind = kindSet
				p.pop()
				p.step = stepSetKnobName
			default:
				return statements, ErrInvalidStatementKind.New()
			}
		// -----------------
		// CREATE TABLE / DROP TABLE
		//------------------
		case stepCreateTableName,
			stepCreateTableOpeningParens,
			stepCreateTableColumn,
			stepCreateTableColumnType,
			stepCreateTableCharLength,
			stepCreateTableCommaOrClosingParens,
			stepDropTableName:
			if err := p.doParseTable(); err != nil {
				return statements, err
			}
		// -----------------
		// CREATE INDEX / DROP INDEX
		//------------------
		case stepIndexTableName,
			stepIndexOpeningParens,
			stepIndexColumn,
			stepIndexCommaOrClosingParens:
			if err := p.doParseIndex(); err != nil {
				return statements, err
			}
		// -----------------
		// INSERT INTO
		//------------------
		case stepInsertTable,
			stepInsertValuesRWord,
			stepInsertValuesOpeningParens,
			stepInsertValue,
			stepInsertCommaOrClosingParens:
			if err := p.doParseInsert(); err != nil {
				return statements, err
			}
		// -----------------
		// UPDATE
		//------------------
		case stepUpdateTable,
			stepUpdateSet,
			stepUpdateField,
			stepUpdateEquals,
			stepUpdateValue,
			stepUpdateCommaOrWhere:
			if err := p.doParseUpdate(); err != nil {
				return statements, err
			}
		// -----------------
		// DELETE FROM
		//------------------
		case stepDeleteFromTable:
			if err := p.doParseDelete(); err != nil {
				return statements, err
			}
		// -----------------
		// SELECT
		//------------------
		case stepSelectField,
			stepSelectComma,
			stepSelectFrom,
			stepSelectFromTable,
			stepSelectFromComma,
			stepGroupByField,
			stepGroupByComma,
			stepOrderByField,
			stepOrderByComma:
			if err := p.doParseSelect(); err != nil {
				return statements, err
			}
		// -----------------
		// SET
		//------------------
		case stepSetKnobName,
			stepSetEquals,
			stepSetValue:
			if err := p.doParseSet(); err != nil {
				return statements, err
			}
		// -----------------
		// WHERE / HAVING conditions
		//------------------
		case stepWhere,
			stepWhereConditionLhs,
			stepWhereConditionOperator,
			stepWhereConditionRhs,
			stepWhereAnd:
			if err := p.doParseWhere(); err != nil {
				return statements, err
			}
		case stepStatementEnd:
			semicolon := p.peek()
			if semicolon != ";" && len(semicolon) != 0 {
				return statements, ErrExpectedSemicolon.New()
			}
			if semicolon == ";" {
				p.pop()
				stmt, err := p.materialize()
				if err != nil {
					return nil, err
				}
				statements = append(statements, stmt)
				if p.i < len(p.sql) {
					p.resetStatement()
				} else {
					return statements, nil
				}
			}
		}
	}

	stmt, err := p.materialize()
	if err != nil {
		return nil, err
	}
	return append(statements, stmt), nil
}

func (p *parserItem) peek() string {
	peeked, _ := p.peekWithLength()
	return peeked
}

func (p *parserItem) pop() string {
	peeked, length := p.peekWithLength()
	p.i += length
	p.popWhitespace()
	return peeked
}

func (p *parserItem) popWhitespace() {
	for ; p.i < len(p.sql) && p.sql[p.i] == ' '; p.i++ {
	}
}

func (p *parserItem) peekWithLength() (string, int) {
	if p.i >= len(p.sql) {
		return "", 0
	}
	// First check for reserved words
	for _, rWord := range reservedWords {
		token := strings.ToUpper(p.sql[p.i:min(len(p.sql), p.i+len(rWord))])
		if token != rWord {
			continue
		}
		// A keyword must not swallow the head of an identifier, e.g. AND
		// inside "android". Operators and parens have no such problem.
		if isWordLike(rWord) && p.i+len(rWord) < len(p.sql) && isIdentifierChar(p.sql[p.i+len(rWord)]) {
			continue
		}
		return token, len(token)
	}
	// Next for quoted string literals
	if p.sql[p.i] == '\'' {
		return p.peekQuotedStringWithLength()
	}
	// Next for numbers (floats or integers)
	if unicode.IsDigit(rune(p.sql[p.i])) || p.sql[p.i] == '-' {
		_, ln := p.peekNumberWithLength()
		if ln > 0 {
			return p.sql[p.i : p.i+ln], ln
		}
	}
	// And finally for identifiers
	return p.peekIdentifierWithLength()
}

func (p *parserItem) peekQuotedStringWithLength() (string, int) {
	if len(p.sql) < p.i || p.sql[p.i] != '\'' {
		return "", 0
	}
	for i := p.i + 1; i < len(p.sql); i++ {
		if p.sql[i] == '\'' && p.sql[i-1] != '\\' {
			return p.sql[p.i+1 : i], len(p.sql[p.i+1:i]) + 2 // +2 for the two quotes
		}
	}
	return "", 0
}

func (p *parserItem) peekBooleanWithLength() (bool, int) {
	boolValue := strings.ToUpper(p.peek())
	if boolValue == "TRUE" || boolValue == "FALSE" {
		return boolValue == "TRUE", len(boolValue)
	}
	return false, 0
}

func (p *parserItem) peekIntWithLength() (int64, int) {
	numberStart := p.i
	if numberStart < len(p.sql) && p.sql[numberStart] == '-' {
		numberStart++
	}
	if len(p.sql) <= numberStart || !unicode.IsDigit(rune(p.sql[numberStart])) {
		return 0, 0
	}
	end := numberStart
	for ; end < len(p.sql) && unicode.IsDigit(rune(p.sql[end])); end++ {
	}
	intValue, err := strconv.Atoi(p.sql[p.i:end])
	if err != nil {
		return 0, 0
	}
	return int64(intValue), end - p.i
}

func (p *parserItem) peekNumberWithLength() (float64, int) {
	numberStart := p.i
	if numberStart < len(p.sql) && p.sql[numberStart] == '-' {
		numberStart++
	}
	if len(p.sql) <= numberStart || !unicode.IsDigit(rune(p.sql[numberStart])) {
		return 0.0, 0
	}
	end := numberStart
	for ; end < len(p.sql); end++ {
		if unicode.IsDigit(rune(p.sql[end])) || p.sql[end] == '.' {
			continue
		}
		break
	}
	floatValue, err := strconv.ParseFloat(p.sql[p.i:end], 64)
	if err != nil {
		return 0.0, 0
	}
	return floatValue, end - p.i
}

// peekValue recognises a literal: boolean, integer, float or quoted string.
func (p *parserItem) peekValue() (any, int) {
	boolean, ln := p.peekBooleanWithLength()
	if ln > 0 {
		return boolean, ln
	}
	number, ln := p.peekNumberWithLength()
	if ln > 0 {
		if !strings.Contains(p.sql[p.i:p.i+ln], ".") {
			return int64(number), ln
		}
		return number, ln
	}
	quotedValue, ln := p.peekQuotedStringWithLength()
	if ln > 0 {
		return quotedValue, ln
	}
	return nil, 0
}

// popRawCol consumes a possibly qualified column reference (col or
// tab.col).
func (p *parserItem) popRawCol() (graindb.RawCol, bool) {
	identifier := p.peek()
	if !isIdentifier(identifier) {
		return graindb.RawCol{}, false
	}
	p.pop()
	if p.peek() != "." {
		return graindb.RawCol{Column: identifier}, true
	}
	p.pop()
	colName := p.peek()
	if !isIdentifier(colName) {
		return graindb.RawCol{}, false
	}
	p.pop()
	return graindb.RawCol{Table: identifier, Column: colName}, true
}

var identifierCharRegexp = regexp.MustCompile(`[a-zA-Z_0-9]`)

func isIdentifierChar(b byte) bool {
	return identifierCharRegexp.MatchString(string(b))
}

func (p *parserItem) peekIdentifierWithLength() (string, int) {
	var i int
	for i = p.i; i < len(p.sql); i++ {
		if !isIdentifierChar(p.sql[i]) {
			break
		}
	}
	return p.sql[p.i:i], i - p.i
}

var identifierRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z_0-9]*$`)

func isIdentifier(s string) bool {
	for _, rWord := range reservedWords {
		if strings.ToUpper(s) == rWord {
			return false
		}
	}
	return identifierRegexp.MatchString(s)
}

// isWordLike reports whether a reserved word consists of identifier
// characters only (keywords as opposed to operators and punctuation).
func isWordLike(rWord string) bool {
	for i := 0; i < len(rWord); i++ {
		if !isIdentifierChar(rWord[i]) && rWord[i] != ' ' {
			return false
		}
	}
	return true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
