package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	path   string
	body   any
}

// fakeAPI answers every call with the JSON registered for its path.
type fakeAPI struct {
	t         *testing.T
	responses map[string]string
	err       error
	calls     []recordedCall
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{t: t, responses: make(map[string]string)}
}

func (f *fakeAPI) reply(path, body string) *fakeAPI {
	f.responses[path] = body
	return f
}

func (f *fakeAPI) do(method, path string, body, out any) error {
	f.calls = append(f.calls, recordedCall{method: method, path: path, body: body})
	if f.err != nil {
		return f.err
	}
	raw, ok := f.responses[path]
	require.True(f.t, ok, "unexpected call %s %s", method, path)
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeAPI) Get(_ context.Context, path string, out any) error {
	return f.do(http.MethodGet, path, nil, out)
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	return f.do(http.MethodPost, path, body, out)
}

func (f *fakeAPI) Put(_ context.Context, path string, body, out any) error {
	return f.do(http.MethodPut, path, body, out)
}

type gate bool

func (g gate) HasSession() bool { return bool(g) }
