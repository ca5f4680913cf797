package instrument

import (
	"context"
	"reflect"
	"runtime"
	"strings"
)

// Func wraps fn. The label defaults to fn's own name.
func Func(fn func(), opts ...Option) func() {
	name := FuncName(fn)
	return func() {
		_, s := Start(context.Background(), name, opts...)
		defer s.End()
		fn()
	}
}

// Func1 wraps a function returning one value.
func Func1[R any](fn func() R, opts ...Option) func() R {
	name := FuncName(fn)
	return func() R {
		_, s := Start(context.Background(), name, opts...)
		defer s.End()
		return fn()
	}
}

// FuncErr wraps a function returning a value and an error. Errors do not
// change what is recorded.
func FuncErr[R any](fn func() (R, error), opts ...Option) func() (R, error) {
	name := FuncName(fn)
	return func() (R, error) {
		_, s := Start(context.Background(), name, opts...)
		defer s.End()
		return fn()
	}
}

// FuncCtx wraps a context-aware function. The scope's span becomes the parent
// of spans started by fn, and a timed.WithOutput override on ctx is honored.
func FuncCtx[T, R any](fn func(context.Context, T) (R, error), opts ...Option) func(context.Context, T) (R, error) {
	name := FuncName(fn)
	return func(ctx context.Context, in T) (R, error) {
		ctx, s := Start(ctx, name, opts...)
		defer s.End()
		return fn(ctx, in)
	}
}

// FuncName returns the short identifier of a func value, e.g. "loadUser"
// for "github.com/acme/app/users.loadUser". Closures keep their
// compiler-assigned suffix ("handler.func1").
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "unknown"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "unknown"
	}
	full := f.Name()
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}
	return strings.TrimSuffix(full, "-fm")
}
