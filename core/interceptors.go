package core

import (
	"context"
	"net/http"
)

// ######################################################
//
//	REQUEST/RESPONSE INTERCEPTORS
//
// ######################################################

// BeforeRequestFunc is executed with the fully built request right before it is sent.
// It may inspect or mutate the request. Any error aborts the invocation.
type BeforeRequestFunc func(ctx context.Context, method string, r *http.Request) error

// AfterRequestFunc is executed with the classified response (Record or Raw).
// It may replace the response. Any error is returned from the invocation.
type AfterRequestFunc func(ctx context.Context, method string, response Renderable) (Renderable, error)

// doBeforeRequest runs the BeforeRequestFn hook of the config, if any.
func doBeforeRequest(ctx context.Context, config *QRSConfig, method string, r *http.Request) error {
	if config.BeforeRequestFn == nil {
		return nil
	}
	return config.BeforeRequestFn(ctx, method, r)
}

// doAfterRequest runs the AfterRequestFn hook of the config, if any.
func doAfterRequest(ctx context.Context, config *QRSConfig, method string, response Renderable) (Renderable, error) {
	if config.AfterRequestFn == nil {
		return response, nil
	}
	return config.AfterRequestFn(ctx, method, response)
}
