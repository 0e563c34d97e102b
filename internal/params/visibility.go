package params

import (
	"fmt"
	"sync"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

var (
	visibilityOnce     sync.Once
	visibilityPrograms map[string]*exprvm.Program
	visibilityErr      error
)

// compileVisibility compiles every ShowIf predicate against the snapshot
// environment. Predicates reference document field names.
func compileVisibility() {
	env := Defaults().Values()
	visibilityPrograms = make(map[string]*exprvm.Program)

	for _, f := range fields {
		if f.ShowIf == "" {
			continue
		}
		program, err := exprlang.Compile(f.ShowIf, exprlang.Env(env), exprlang.AsBool())
		if err != nil {
			visibilityErr = fmt.Errorf("compiling visibility of %s: %w", f.Name, err)
			return
		}
		visibilityPrograms[f.Name] = program
	}
}

// CheckVisibility compiles all visibility predicates and reports the first
// one that does not compile.
func CheckVisibility() error {
	visibilityOnce.Do(compileVisibility)
	return visibilityErr
}

// Visible evaluates the field's visibility predicate against s.
// Fields without a predicate are always visible.
func Visible(f Field, s *Snapshot) (bool, error) {
	if f.ShowIf == "" {
		return true, nil
	}
	if err := CheckVisibility(); err != nil {
		return false, err
	}

	program, ok := visibilityPrograms[f.Name]
	if !ok {
		return false, fmt.Errorf("no visibility program for %s", f.Name)
	}

	out, err := exprlang.Run(program, s.Values())
	if err != nil {
		return false, fmt.Errorf("evaluating visibility of %s: %w", f.Name, err)
	}
	visible, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("visibility of %s evaluated to %T", f.Name, out)
	}
	return visible, nil
}
