package vm

import "sync"

// Runtime failures travel as Go errors wrapping a thrown value, so builtin
// helpers can return them through ordinary (Value, error) signatures and the
// embedder can recover the JavaScript exception object.

type exceptionError struct {
	exception Value
}

func (e exceptionError) Error() string {
	v := e.exception
	if obj := v.AsPlainObject(); obj != nil {
		name, _ := obj.Get("name")
		msg, _ := obj.Get("message")
		if !name.IsUndefined() {
			if msg.IsUndefined() || msg.ToString() == "" {
				return name.ToString()
			}
			return name.ToString() + ": " + msg.ToString()
		}
	}
	return v.ToString()
}

// NewThrownError wraps an arbitrary thrown value as a Go error.
func NewThrownError(v Value) error {
	return exceptionError{exception: v}
}

// ThrownValue extracts the thrown value from an error produced by this
// package. Returns (Undefined, false) for foreign errors.
func ThrownValue(err error) (Value, bool) {
	if ex, ok := err.(exceptionError); ok {
		return ex.exception, true
	}
	return Undefined, false
}

// ErrorPrototypes maps error class names to the prototypes one runtime
// installed, so exceptions it raises get that runtime's prototype links.
// Each runtime owns its registry; sharing one across runtimes would link
// one runtime's exceptions to another's prototypes.
type ErrorPrototypes struct {
	mu     sync.RWMutex
	protos map[string]Value
}

func NewErrorPrototypes() *ErrorPrototypes {
	return &ErrorPrototypes{protos: make(map[string]Value)}
}

// Register records the prototype for an error class name. Called by the
// error builtins during runtime initialization.
func (p *ErrorPrototypes) Register(name string, proto Value) {
	p.mu.Lock()
	p.protos[name] = proto
	p.mu.Unlock()
}

// Lookup returns the registered prototype for an error class name.
func (p *ErrorPrototypes) Lookup(name string) (Value, bool) {
	if p == nil {
		return Undefined, false
	}
	p.mu.RLock()
	proto, ok := p.protos[name]
	p.mu.RUnlock()
	return proto, ok
}

// Adopt links a bare exception raised by this package's error constructors
// to the registry's prototype for its class. Foreign errors and exceptions
// that already carry a prototype pass through untouched. Safe on a nil
// registry.
func (p *ErrorPrototypes) Adopt(err error) error {
	if p == nil || err == nil {
		return err
	}
	ex, ok := err.(exceptionError)
	if !ok {
		return err
	}
	obj := ex.exception.AsPlainObject()
	if obj == nil || !obj.GetPrototype().IsNull() {
		return err
	}
	name, ok := obj.GetOwn("name")
	if !ok {
		return err
	}
	proto, ok := p.Lookup(name.ToString())
	if !ok {
		return err
	}
	obj.SetPrototype(proto)
	// The name now resolves through the prototype, like constructor-made
	// error objects
	obj.DeleteOwn("name")
	return err
}

// newErrorValue builds a bare exception object: null prototype, own name and
// message. A runtime's ErrorPrototypes registry links it via Adopt.
func newErrorValue(name, message string) Value {
	obj := NewObject(Null).AsPlainObject()
	obj.SetOwn("name", NewString(name))
	obj.SetOwn("message", NewString(message))
	return NewValueFromPlainObject(obj)
}

// NewTypeError constructs a TypeError exception error for builtin helpers to return
func NewTypeError(message string) error {
	return exceptionError{exception: newErrorValue("TypeError", message)}
}

// NewRangeError constructs a RangeError exception error for builtin helpers to return
func NewRangeError(message string) error {
	return exceptionError{exception: newErrorValue("RangeError", message)}
}

// NewReferenceError constructs a ReferenceError exception error for builtin helpers to return
func NewReferenceError(message string) error {
	return exceptionError{exception: newErrorValue("ReferenceError", message)}
}

// NewSyntaxError constructs a SyntaxError exception error for builtin helpers to return
func NewSyntaxError(message string) error {
	return exceptionError{exception: newErrorValue("SyntaxError", message)}
}
