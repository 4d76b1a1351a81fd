package autocache

// Func1 is an Engine over a one-argument computation.
type Func1[I1, O any] struct {
	*Engine[O]
}

// Call invokes the wrapped computation with i1.
func (f Func1[I1, O]) Call(i1 I1) (O, error) {
	return f.Engine.Call(Positional(i1))
}

func Wrap1[I1, O any](fn func(I1) (O, error), opts ...Option) (Func1[I1, O], error) {
	e, err := New(func(args Args) (O, error) {
		return fn(positional[I1](args, 0))
	}, opts...)
	return Func1[I1, O]{Engine: e}, err
}

// Func2 is an Engine over a two-argument computation.
type Func2[I1, I2, O any] struct {
	*Engine[O]
}

func (f Func2[I1, I2, O]) Call(i1 I1, i2 I2) (O, error) {
	return f.Engine.Call(Positional(i1, i2))
}

func Wrap2[I1, I2, O any](fn func(I1, I2) (O, error), opts ...Option) (Func2[I1, I2, O], error) {
	e, err := New(func(args Args) (O, error) {
		return fn(positional[I1](args, 0), positional[I2](args, 1))
	}, opts...)
	return Func2[I1, I2, O]{Engine: e}, err
}

// Func3 is an Engine over a three-argument computation.
type Func3[I1, I2, I3, O any] struct {
	*Engine[O]
}

func (f Func3[I1, I2, I3, O]) Call(i1 I1, i2 I2, i3 I3) (O, error) {
	return f.Engine.Call(Positional(i1, i2, i3))
}

func Wrap3[I1, I2, I3, O any](fn func(I1, I2, I3) (O, error), opts ...Option) (Func3[I1, I2, I3, O], error) {
	e, err := New(func(args Args) (O, error) {
		return fn(positional[I1](args, 0), positional[I2](args, 1), positional[I3](args, 2))
	}, opts...)
	return Func3[I1, I2, I3, O]{Engine: e}, err
}

// Pure1 is an Engine over a one-argument computation that cannot fail.
// Call panics if the argument cannot be keyed or the Store fails.
type Pure1[I1, O any] struct {
	*Engine[O]
}

func (f Pure1[I1, O]) Call(i1 I1) O {
	out, err := f.Engine.Call(Positional(i1))
	if err != nil {
		panic(err)
	}
	return out
}

func WrapPure1[I1, O any](pureFn func(I1) O, opts ...Option) (Pure1[I1, O], error) {
	e, err := New(func(args Args) (O, error) {
		return pureFn(positional[I1](args, 0)), nil
	}, opts...)
	return Pure1[I1, O]{Engine: e}, err
}

// Pure2 is an Engine over a two-argument computation that cannot fail.
type Pure2[I1, I2, O any] struct {
	*Engine[O]
}

func (f Pure2[I1, I2, O]) Call(i1 I1, i2 I2) O {
	out, err := f.Engine.Call(Positional(i1, i2))
	if err != nil {
		panic(err)
	}
	return out
}

func WrapPure2[I1, I2, O any](pureFn func(I1, I2) O, opts ...Option) (Pure2[I1, I2, O], error) {
	e, err := New(func(args Args) (O, error) {
		return pureFn(positional[I1](args, 0), positional[I2](args, 1)), nil
	}, opts...)
	return Pure2[I1, I2, O]{Engine: e}, err
}

// positional returns the i-th positional argument as T. A nil argument
// yields the zero value, which is what a nil interface argument was.
func positional[T any](args Args, i int) T {
	v, _ := args.Positional[i].(T)
	return v
}
