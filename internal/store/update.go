package store

type updateKind uint8

const (
	kindInvalid updateKind = iota
	kindValue
	kindPatch
	kindUpdater
)

func (k updateKind) String() string {
	switch k {
	case kindValue:
		return "value"
	case kindPatch:
		return "patch"
	case kindUpdater:
		return "updater"
	default:
		return "invalid"
	}
}

// Fields is a partial value: struct field names (or map keys) to new values.
// A nil entry resets the target to its zero value.
type Fields map[string]any

// Update describes the next value handed to Set. Build one with Value, Patch
// or Updater; the zero Update is invalid.
type Update[T any] struct {
	kind   updateKind
	value  T
	fields Fields
	fn     func(T) Update[T]
}

// Value is a literal next value. Composite values are merged into the current
// value unless WithReplace(true) is given; anything else replaces it.
func Value[T any](v T) Update[T] {
	return Update[T]{kind: kindValue, value: v}
}

// Patch is a partial next value shallow-merged into the current value.
func Patch[T any](fields Fields) Update[T] {
	return Update[T]{kind: kindPatch, fields: fields}
}

// Updater derives the next descriptor from the current value. The function
// is called once per Set and is never stored.
func Updater[T any](fn func(current T) Update[T]) Update[T] {
	return Update[T]{kind: kindUpdater, fn: fn}
}

// Apply is shorthand for an updater returning a literal value.
func Apply[T any](fn func(current T) T) Update[T] {
	return Updater(func(current T) Update[T] {
		return Value(fn(current))
	})
}

// resolve invokes updaters until a concrete descriptor is reached.
func (u Update[T]) resolve(current T) Update[T] {
	for u.kind == kindUpdater {
		if u.fn == nil {
			panic(&UpdateError{Kind: kindUpdater.String(), Err: ErrInvalidUpdate})
		}
		u = u.fn(current)
	}
	if u.kind == kindInvalid {
		panic(&UpdateError{Kind: u.kind.String(), Err: ErrInvalidUpdate})
	}
	return u
}

// SetOption adjusts a single Set call.
type SetOption func(*setConfig)

type setConfig struct {
	replace    bool
	hasReplace bool
}

// WithReplace forces replace (true) or merge (false) instead of the default
// picked from the shape of the next value.
func WithReplace(replace bool) SetOption {
	return func(c *setConfig) {
		c.replace = replace
		c.hasReplace = true
	}
}

func newSetConfig(opts []SetOption) setConfig {
	var cfg setConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Kind names the descriptor case: "value", "patch", "updater" or "invalid".
func (u Update[T]) Kind() string {
	return u.kind.String()
}

// Fields returns the partial carried by a Patch, nil otherwise. The map is
// shared with the descriptor and must not be modified.
func (u Update[T]) Fields() Fields {
	return u.fields
}
