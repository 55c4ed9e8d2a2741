package store

// Wrapper is implemented by mutator handles so code holding the outermost
// handle can reach methods added further in.
type Wrapper[T any] interface {
	Unwrap() API[T]
}

// As walks the mutator chain from api inward and returns the first handle of
// type H.
//
//	sel, ok := store.As[*mutate.Selecting[State]](api)
func As[H any, T any](api API[T]) (H, bool) {
	for api != nil {
		if h, ok := api.(H); ok {
			return h, true
		}
		w, ok := api.(Wrapper[T])
		if !ok {
			break
		}
		api = w.Unwrap()
	}
	var zero H
	return zero, false
}

// ReplaceFlag reports the replace flag carried by opts and whether it was set
// explicitly. Mutators use it to inspect a Set call they forward.
func ReplaceFlag(opts ...SetOption) (replace, explicit bool) {
	cfg := newSetConfig(opts)
	return cfg.replace, cfg.hasReplace
}
