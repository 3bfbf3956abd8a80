package feedrank

import (
	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	apperrors "github.com/openlens/trustfeed/internal/errors"
)

// Filter is a compiled feed filter expression. Expressions see one entry
// at a time as the variables cid, type, publisher, love and trust.
type Filter struct {
	program cel.Program
}

// CompileFilter compiles expr into a reusable filter. A syntactically or
// semantically invalid expression fails here, before any ranking work.
func CompileFilter(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("cid", cel.StringType),
		cel.Variable("type", cel.StringType),
		cel.Variable("publisher", cel.StringType),
		cel.Variable("love", cel.DoubleType),
		cel.Variable("trust", cel.DoubleType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter environment")
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apperrors.InvalidArgument("invalid filter expression: " + issues.Err().Error())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, apperrors.InvalidArgument("filter expression must evaluate to a boolean")
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter program")
	}
	return &Filter{program: program}, nil
}

// Match reports whether item passes the filter. Runtime evaluation errors
// drop the entry rather than failing the pass.
func (f *Filter) Match(item *Item) bool {
	out, _, err := f.program.Eval(map[string]any{
		"cid":       item.Cid,
		"type":      item.Type,
		"publisher": item.Publisher,
		"love":      item.Love,
		"trust":     item.Trust,
	})
	if err != nil {
		return false
	}
	matched, ok := out.Value().(bool)
	return ok && matched
}
