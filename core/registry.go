package core

import (
	"context"
	"sync"
)

// MethodInfo is the snapshot returned by Registry.ShowMethodInfo.
type MethodInfo struct {
	Name     string `json:"name"`
	Method   string `json:"method"`
	Path     string `json:"path"`
	Params   string `json:"params"`
	Extended string `json:"extended"`
}

// ToRecord converts the snapshot into a Record.
func (mi MethodInfo) ToRecord() Record {
	return Record{
		"name":     mi.Name,
		"method":   mi.Method,
		"path":     mi.Path,
		"params":   mi.Params,
		"extended": mi.Extended,
	}
}

// Registry owns the named methods of one repository connection.
// Every registered method gets its own clone of the base configuration.
type Registry struct {
	mu      sync.RWMutex
	config  *QRSConfig
	methods map[string]*Method
	exec    map[string]InvokeFunc
	order   []string
}

// NewRegistry creates a Registry. The config is cloned; later changes to
// the argument do not affect the registry.
func NewRegistry(config *QRSConfig) *Registry {
	if config == nil {
		config = &QRSConfig{}
	}
	return &Registry{
		config:  config.Clone(),
		methods: make(map[string]*Method),
		exec:    make(map[string]InvokeFunc),
	}
}

// Config returns a copy of the base configuration.
func (r *Registry) Config() *QRSConfig {
	return r.config.Clone()
}

// RegisterMethod registers a method under name. The verb must be one of GET,
// POST, PUT or DELETE, the path must not be empty and the name must not be
// registered yet. On failure the registry is left unchanged.
func (r *Registry) RegisterMethod(name, verb, path, params string, extended ...string) (*Method, error) {
	if _, ok := allowedVerbs[verb]; !ok {
		return nil, &MethodNotAllowedError{Verb: verb}
	}
	if path == "" {
		return nil, &PathNotSpecifiedError{Name: name}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.methods[name]; exists {
		return nil, &MethodExistsError{Name: name}
	}
	method := NewMethod(name, verb, path, r.config.Clone(), params, extended...)
	r.store(name, method)
	return method, nil
}

// store must be called with mu held.
func (r *Registry) store(name string, method *Method) {
	if _, exists := r.methods[name]; !exists {
		r.order = append(r.order, name)
	}
	r.methods[name] = method
	r.exec[name] = method.Func()
}

// ShowMethodInfo returns {name, method, path, params, extended} of a registered
// method, or an empty Record if name is not registered.
func (r *Registry) ShowMethodInfo(name string) Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	method, ok := r.methods[name]
	if !ok {
		return Record{}
	}
	return method.Info().ToRecord()
}

// ShowAllMethodsInfo returns the info of every registered method in registration order.
func (r *Registry) ShowAllMethodsInfo() RecordSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(RecordSet, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.methods[name].Info().ToRecord())
	}
	return result
}

// GetMethod returns the registered method or nil.
func (r *Registry) GetMethod(name string) *Method {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.methods[name]
}

// SetMethod stores method under name, replacing any existing one, and re-binds
// the callable shortcut to it.
func (r *Registry) SetMethod(name string, method *Method) *Method {
	if method == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(name, method)
	return method
}

// DeleteMethod removes a method and its shortcut. It reports whether anything was removed.
func (r *Registry) DeleteMethod(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[name]; !ok {
		return false
	}
	delete(r.methods, name)
	delete(r.exec, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// ImportMethods registers one method per descriptor, in order. The method name is
// derived from verb and path; a "?query" suffix of the path is stored as params.
// The first failing registration aborts the import; methods registered before it stay.
func (r *Registry) ImportMethods(descriptors []Descriptor) error {
	for _, d := range descriptors {
		path, params := splitPath(d.Path)
		if _, err := r.RegisterMethod(d.Name(), d.Method, path, params, d.Extended); err != nil {
			return err
		}
	}
	return nil
}

// Exec returns the callable shortcut of a registered method.
func (r *Registry) Exec(name string) (InvokeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.exec[name]
	return fn, ok
}

// Call invokes the method registered under name.
func (r *Registry) Call(ctx context.Context, name string, args *Args) (Renderable, error) {
	fn, ok := r.Exec(name)
	if !ok {
		return nil, &MethodNotFoundError{Name: name}
	}
	return fn(ctx, args)
}

// Names returns the registered method names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered methods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.methods)
}
