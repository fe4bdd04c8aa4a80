package engine

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"admin-backend/internal/metadata"
)

// CompileRule compiles a business-rule expression into an expr-lang program.
// Rule expressions must evaluate to a boolean; true means the rule is violated.
func CompileRule(expression string) (*vm.Program, error) {
	prog, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile rule: %w", err)
	}
	return prog, nil
}

// EvaluateRule evaluates one business rule against a record.
// Returns nil if the rule passes or its target field is absent, or an
// ErrorDetail if the rule is violated.
func EvaluateRule(rule *metadata.Rule, record map[string]any) *ErrorDetail {
	if val, exists := record[rule.Field]; !exists || val == nil {
		// Absent fields are the required check's business, not a rule's.
		return nil
	}

	prog, ok := rule.Compiled.(*vm.Program)
	if !ok || prog == nil {
		// Lazy compile
		compiled, err := CompileRule(rule.Expression)
		if err != nil {
			return &ErrorDetail{Field: rule.Field, Message: fmt.Sprintf("rule %s: %v", rule.Name, err)}
		}
		rule.Compiled = compiled
		prog = compiled
	}

	env := map[string]any{"record": record}
	result, err := expr.Run(prog, env)
	if err != nil {
		return &ErrorDetail{Field: rule.Field, Message: fmt.Sprintf("rule %s: %v", rule.Name, err)}
	}

	violated, ok := result.(bool)
	if !ok || !violated {
		return nil
	}

	msg := rule.Message
	if msg == "" {
		msg = fmt.Sprintf("field %s failed %s validation", rule.Field, rule.Name)
	}
	return &ErrorDetail{Field: rule.Field, Message: msg}
}
