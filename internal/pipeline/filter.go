// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pipeline

import (
	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/schema"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrInvalidFilter is returned for an include condition that does not compile or
// does not evaluate to a boolean.
var ErrInvalidFilter = errors.New("invalid include condition")

// Filter decides whether a row takes part in generation. The condition sees
// `row` (cells by normalized column name), `index` (0-based data row), `number`
// (sheet row) and `sheet`.
type Filter struct {
	condition string
	program   *vm.Program
}

// CompileFilter compiles an include condition. An empty condition includes every
// row and yields a nil Filter.
func CompileFilter(condition string) (*Filter, error) {
	if condition == "" {
		return nil, nil
	}
	program, err := expr.Compile(condition, expr.Env(filterEnv("", schema.RawRow{})), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, ErrInvalidFilter), "compile include condition %q", condition)
	}
	return &Filter{condition: condition, program: program}, nil
}

// Include evaluates the condition for one row. A nil result counts as false.
func (f *Filter) Include(sheet string, row schema.RawRow) (bool, error) {
	if f == nil {
		return true, nil
	}
	result, err := expr.Run(f.program, filterEnv(sheet, row))
	if err != nil {
		return false, errors.Wrapf(err, "evaluate include condition %q", f.condition)
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, errors.Wrapf(ErrInvalidFilter, "condition %q evaluated to %T, expected bool", f.condition, result)
	}
	return b, nil
}

func filterEnv(sheet string, row schema.RawRow) map[string]any {
	cells := row.Cells
	if cells == nil {
		cells = map[string]string{}
	}
	return map[string]any{
		"row":    cells,
		"index":  row.Index,
		"number": row.SheetRow(),
		"sheet":  sheet,
	}
}
