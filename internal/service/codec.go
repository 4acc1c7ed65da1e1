package service

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// JSONCodec encodes plain Go structs as JSON. It replaces connect's default
// "json" codec, which only accepts protobuf messages.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// procedure builds the route of one RPC method.
func procedure(service, method string) string {
	return "/livrocaixa.v1." + service + "/" + method
}

// handle registers one unary method on mux.
func handle[Req, Res any](
	mux *http.ServeMux,
	path string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts ...connect.HandlerOption,
) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	mux.Handle(path, connect.NewUnaryHandler(path, fn, opts...))
}

// Empty is the request or response of methods that carry no data.
type Empty struct{}

// IDRequest selects one record.
type IDRequest struct {
	ID string `json:"id"`
}
