package depscope

// options collects the per-call settings shared by registry operations.
type options struct {
	namespace    string
	namespaceSet bool
	lenient      bool
	deep         bool
}

// Option configures a single registry operation.
type Option func(*options)

// InNamespace targets the named namespace instead of DefaultNamespace.
// For Purge and Snapshot it also narrows the operation to that namespace
// alone.
func InNamespace(name string) Option {
	return func(o *options) {
		o.namespace = name
		o.namespaceSet = true
	}
}

// Lenient makes a lookup miss return nil instead of a *NotFoundError. A
// warning is still logged, since a silent nil can mask real bugs.
func Lenient() Option {
	return func(o *options) { o.lenient = true }
}

// Deep makes a scope duplicate the bound values on entry, not just the
// namespace and binding maps. Required when bound values are mutable and
// must not be observably shared between nested scopes. See Cloner for how
// values participate in the copy.
func Deep() Option {
	return func(o *options) { o.deep = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.namespaceSet {
		o.namespace = DefaultNamespace
	}
	return o
}
