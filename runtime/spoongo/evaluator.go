package spoongo

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// Sentinel errors
var (
	ErrCompileExpression = errors.New("failed to compile expression")
	ErrEvaluate          = errors.New("failed to evaluate expression")
)

const (
	// ContextVariable is the variable compiled lookups resolve against.
	ContextVariable = "context"
	// LookupFunction is the function compiled sub-variables call.
	LookupFunction = "lookup"
)

// Evaluator runs compiled lookup expressions with CEL. Programs are
// cached per expression and the Evaluator is safe for concurrent use.
type Evaluator struct {
	env      *cel.Env
	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewEvaluator creates an evaluator declaring the context variable and
// the lookup function.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(ContextVariable, cel.DynType),
		cel.Function(LookupFunction,
			cel.Overload("lookup_dyn_list_string",
				[]*cel.Type{cel.DynType, cel.ListType(cel.StringType)},
				cel.DynType,
				cel.BinaryBinding(lookupBinding),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Evaluator{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Evaluate runs code against context and returns the resulting Go value.
func (e *Evaluator) Evaluate(code string, context any) (any, error) {
	prg, err := e.program(code)
	if err != nil {
		return nil, err
	}

	out, _, err := prg.Eval(map[string]any{
		ContextVariable: nativeValue{value: context},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEvaluate, code, err)
	}

	if out.Type() == types.NullType {
		return nil, nil
	}

	return out.Value(), nil
}

func (e *Evaluator) program(code string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[code]
	e.mu.RUnlock()

	if ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(code)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompileExpression, code, issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompileExpression, code, err)
	}

	e.mu.Lock()
	e.programs[code] = prg
	e.mu.Unlock()

	return prg, nil
}

// cached reports the number of compiled programs.
func (e *Evaluator) cached() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.programs)
}

var stringSliceType = reflect.TypeOf([]string{})

func lookupBinding(lhs, rhs ref.Val) ref.Val {
	native, err := rhs.ConvertToNative(stringSliceType)
	if err != nil {
		return types.WrapErr(err)
	}

	value, err := Lookup(lhs.Value(), native.([]string))
	if err != nil {
		return types.WrapErr(err)
	}

	return toValue(value)
}

// toValue adapts a Go value for CEL. Values CEL has no native
// representation for, such as structs, stay opaque so they can be passed
// on to another lookup.
func toValue(value any) ref.Val {
	val := types.DefaultTypeAdapter.NativeToValue(value)
	if types.IsError(val) {
		return nativeValue{value: value}
	}

	return val
}

var nativeType = types.NewOpaqueType("spoon.native")

// nativeValue carries an arbitrary Go value through CEL unchanged.
type nativeValue struct {
	value any
}

func (n nativeValue) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if n.value == nil {
		return nil, fmt.Errorf("%w: cannot convert to %s", ErrNilValue, typeDesc)
	}

	if reflect.TypeOf(n.value).AssignableTo(typeDesc) {
		return n.value, nil
	}

	return nil, fmt.Errorf("type conversion error from %T to %s", n.value, typeDesc)
}

func (n nativeValue) ConvertToType(typeVal ref.Type) ref.Val {
	if typeVal == types.TypeType {
		return nativeType
	}

	return types.NewErr("type conversion error from %s to %s", nativeType, typeVal)
}

func (n nativeValue) Equal(other ref.Val) ref.Val {
	o, ok := other.(nativeValue)
	return types.Bool(ok && reflect.DeepEqual(n.value, o.value))
}

func (n nativeValue) Type() ref.Type {
	return nativeType
}

func (n nativeValue) Value() any {
	return n.value
}
