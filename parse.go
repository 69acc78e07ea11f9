package staffdb

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Parser evaluates expr-lang filter expressions against records, e.g.
//
//	salary >= 50000 && department == "IT" && subtype != "Intern"
//
// Variables: id, name, department, salary, rating, total, subtype.
type Parser struct {
	projector Projector
}

func NewParser(projector Projector) *Parser {
	return &Parser{projector: projector}
}

func (c *Parser) env(r Record) map[string]any {
	return map[string]any{
		"id":         r.ID,
		"name":       r.Name,
		"department": r.Department,
		"salary":     r.BaseCompensation,
		"rating":     r.PerformanceRating,
		"total":      c.projector.ProjectNumeric(r, ByTotalCompensation),
		"subtype":    r.Subtype.String(),
	}
}

func (c *Parser) Compile(code string) (*vm.Program, error) {
	program, err := expr.Compile(code, expr.Env(c.env(Record{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", code, err)
	}
	return program, nil
}

func (c *Parser) Eval(program *vm.Program, r Record) (bool, error) {
	output, err := expr.Run(program, c.env(r))
	if err != nil {
		return false, err
	}
	ok, _ := output.(bool)
	return ok, nil
}

// Match compiles code and evaluates it against a single record.
func (c *Parser) Match(code string, r Record) (bool, error) {
	program, err := c.Compile(code)
	if err != nil {
		return false, err
	}
	return c.Eval(program, r)
}

// Filter keeps the records code evaluates to true for, in input order.
func (c *Parser) Filter(code string, rows []Record) ([]Record, error) {
	program, err := c.Compile(code)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0)
	for _, r := range rows {
		ok, err := c.Eval(program, r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
