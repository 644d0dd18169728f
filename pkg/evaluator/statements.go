package evaluator

import (
	"github.com/thomasrohde/walker/pkg/ast"
)

// evalProgram runs the body in env itself; a program opens no scope of its own.
func (ev *evaluator) evalProgram(n *ast.Program, env *Env) (Value, error) {
	return ev.evalBlock(n.Body, env)
}

func (ev *evaluator) evalVariablesDeclaration(n *ast.VariablesDeclaration, env *Env) (Value, error) {
	var last Value = NewNull()
	for _, decl := range n.Declarations {
		var val Value = NewNull()
		if decl.Value != nil {
			v, err := ev.eval(decl.Value, env)
			if err != nil {
				return nil, err
			}
			val = v
		}
		last = env.Define(decl.Name, val, n.Constant)
	}
	return last, nil
}

func (ev *evaluator) evalFunctionDeclaration(n *ast.FunctionDeclaration, env *Env) (Value, error) {
	fn := &Function{
		Name:       n.Name,
		Parameters: n.Parameters,
		Body:       n.Body,
		Env:        env,
	}
	// Defined before any call, so the body can refer to its own name.
	env.Define(n.Name, fn, false)
	return fn, nil
}
