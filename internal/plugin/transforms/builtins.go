package transforms

// Builtins returns a registry holding every built-in transform.
func Builtins() *Registry {
	r := NewRegistry()
	for _, t := range []TransformPlugin{NewAddParagraphs(), NewMarkdown()} {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}
