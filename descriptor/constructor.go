package descriptor

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"freezedry/utils"
)

var (
	ErrNotAConstructor         = errors.New("provided function is not a recognizable constructor")
	ErrConstructorNotAFunction = errors.New("provided constructor is not a function")
	ErrDoublePointer           = errors.New("constructor function does not support double pointers")
)

var errorType = reflect.TypeFor[error]()

// Constructor is a registered function that produces a value of Result.
type Constructor struct {
	Func         reflect.Value
	Result       reflect.Type
	Params       []reflect.Type
	PackageAlias string
	Name         string
	HasErr       bool
}

// ParseConstructor inspects the function and returns its description.
//
// Supports signatures:
//   - func(args...) T
//   - func(args...) *T
//   - func(args...) (T, error)
//   - func(args...) (*T, error)
//
// Variadic functions are accepted; the variadic parameter counts as one.
func ParseConstructor(fn any) (Constructor, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return Constructor{}, ErrConstructorNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumOut() == 0 || fnType.NumOut() > 2 {
		return Constructor{}, ErrNotAConstructor
	}

	result := fnType.Out(0)
	if result.Kind() == reflect.Pointer && result.Elem().Kind() == reflect.Pointer {
		return Constructor{}, ErrDoublePointer
	}

	if result == errorType {
		return Constructor{}, ErrNotAConstructor
	}

	ctor := Constructor{
		Func:   fnVal,
		Result: result,
		Params: make([]reflect.Type, 0, fnType.NumIn()),
	}

	for i := range fnType.NumIn() {
		ctor.Params = append(ctor.Params, fnType.In(i))
	}

	if fnPC := runtime.FuncForPC(fnVal.Pointer()); fnPC != nil {
		alias, name := utils.Unpack2(strings.SplitN(path.Base(fnPC.Name()), ".", 2))
		ctor.PackageAlias = alias
		ctor.Name = name
	}

	if fnType.NumOut() == 2 {
		if fnType.Out(1) != errorType {
			return Constructor{}, ErrNotAConstructor
		}

		ctor.HasErr = true
	}

	return ctor, nil
}

// Call invokes the constructor with a zero value for every parameter. The
// constructor's own validation sees those dummy arguments; a type whose
// constructor rejects them cannot be instantiated this way.
func (c Constructor) Call() (reflect.Value, error) {
	n := len(c.Params)
	if c.Func.Type().IsVariadic() {
		n--
	}

	args := make([]reflect.Value, n)
	for i := range n {
		args[i] = reflect.Zero(c.Params[i])
	}

	out := c.Func.Call(args)
	if c.HasErr && !out[1].IsNil() {
		return reflect.Value{}, fmt.Errorf("%s.%s: %w", c.PackageAlias, c.Name, out[1].Interface().(error))
	}

	return out[0], nil
}

// RegisterConstructor registers a constructor function for its result type.
func (t *Table) RegisterConstructor(fns ...any) error {
	parsed := make([]Constructor, 0, len(fns))
	for _, fn := range fns {
		ctor, err := ParseConstructor(fn)
		if err != nil {
			return fmt.Errorf("register constructor %T: %w", fn, err)
		}

		parsed = append(parsed, ctor)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ctor := range parsed {
		key := ctor.Result
		if key.Kind() == reflect.Pointer {
			key = key.Elem()
		}

		t.register(key)
		t.ctors[key] = append(t.ctors[key], ctor)
	}

	return nil
}

// Constructors returns the constructors able to produce the type, either
// directly or through one pointer indirection, ordered by parameter count.
func (t *Table) Constructors(typ reflect.Type) []Constructor {
	key := typ
	if key.Kind() == reflect.Pointer {
		key = key.Elem()
	}

	t.mu.RLock()
	res := slices.Clone(t.ctors[key])
	t.mu.RUnlock()

	slices.SortStableFunc(res, func(a, b Constructor) int {
		return len(a.Params) - len(b.Params)
	})

	return res
}
