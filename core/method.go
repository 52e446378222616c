package core

import (
	"context"
	"net/http"
)

// Args holds the per-call arguments of an invocation.
type Args struct {
	Body           any    // Request payload. Nil sends an empty body.
	QueryParams    Params // Appended after the xrfkey query parameter.
	TemplateParams Params // Values for {placeholder} segments of the path.
}

// InvokeFunc is the callable form of a registered method.
type InvokeFunc func(ctx context.Context, args *Args) (Renderable, error)

// Method is one registered endpoint of the repository API.
// It owns its QRSConfig; Method and Path of that config hold the verb and path template.
type Method struct {
	name     string
	params   string
	extended string
	config   *QRSConfig
}

// NewMethod creates a Method. The config must be exclusively owned by the new
// Method (see QRSConfig.Clone); verb and path are written into it.
func NewMethod(name, verb, path string, config *QRSConfig, params string, extended ...string) *Method {
	if config == nil {
		config = &QRSConfig{}
	}
	config.Method = verb
	config.Path = path
	m := &Method{
		name:   name,
		params: params,
		config: config,
	}
	if len(extended) > 0 {
		m.extended = extended[0]
	}
	return m
}

func (m *Method) Name() string     { return m.name }
func (m *Method) Verb() string     { return m.config.Method }
func (m *Method) Path() string     { return m.config.Path }
func (m *Method) Params() string   { return m.params }
func (m *Method) Extended() string { return m.extended }

// Config returns the config owned by this method. Changes made through it
// (for example a per-endpoint ContentType) apply to subsequent invocations
// of this method only.
func (m *Method) Config() *QRSConfig {
	return m.config
}

// Info returns a snapshot of the method properties.
func (m *Method) Info() MethodInfo {
	return MethodInfo{
		Name:     m.name,
		Method:   m.Verb(),
		Path:     m.Path(),
		Params:   m.params,
		Extended: m.extended,
	}
}

// Func returns the method as an InvokeFunc.
func (m *Method) Func() InvokeFunc {
	return m.Invoke
}

// Invoke resolves the path template, sends the request and returns either a
// Record (first response chunk is a complete JSON object) or Raw bytes.
// A MissingTemplateParamError is returned before any network I/O.
func (m *Method) Invoke(ctx context.Context, args *Args) (Renderable, error) {
	config, client, req, err := m.prepare(ctx, args)
	if err != nil {
		return nil, err
	}
	return m.exchange(req.Context(), config, client, req)
}

// InvokeAsync prepares the request synchronously and performs the exchange in
// its own goroutine. Template errors are returned immediately; transport and
// decode errors are delivered through AsyncResult.Wait.
func (m *Method) InvokeAsync(ctx context.Context, args *Args) (*AsyncResult, error) {
	config, client, req, err := m.prepare(ctx, args)
	if err != nil {
		return nil, err
	}
	ar := newAsyncResult(m.name)
	go func() {
		ar.resolve(m.exchange(req.Context(), config, client, req))
	}()
	return ar, nil
}

// prepare works on a clone of the config so that concurrent invocations never
// observe each other's resolved path.
func (m *Method) prepare(ctx context.Context, args *Args) (*QRSConfig, *http.Client, *http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if args == nil {
		args = &Args{}
	}
	config := m.config.Clone()
	path, err := ResolveTemplate(config.Path, args.TemplateParams)
	if err != nil {
		return nil, nil, nil, err
	}
	config.Path = path
	url := buildUrl(config, path, BuildQuery(config.Xrfkey, args.QueryParams))

	req, err := newRequest(ctx, config, url, args.Body)
	if err != nil {
		return nil, nil, nil, err
	}
	if err = doBeforeRequest(ctx, config, m.name, req); err != nil {
		return nil, nil, nil, err
	}
	client, err := newHTTPClient(config)
	if err != nil {
		return nil, nil, nil, err
	}
	return config, client, req, nil
}

func (m *Method) exchange(ctx context.Context, config *QRSConfig, client *http.Client, req *http.Request) (Renderable, error) {
	response, err := doRequest(client, req)
	if err != nil {
		return nil, err
	}
	return doAfterRequest(ctx, config, m.name, response)
}
