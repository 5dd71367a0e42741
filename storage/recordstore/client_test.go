package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergarav/acuademia/core"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(core.StoreConfig{
		BaseURL:   srv.URL,
		AuthToken: "test-token",
		Timeout:   5 * time.Second,
	})
	return client, srv
}

func Test_create_sendsAuthAndDecodes(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		fmt.Fprint(w, `{"id":"rec1","nombre":"Valeria"}`)
	}))
	defer srv.Close()

	var out struct {
		ID   string `json:"id"`
		Name string `json:"nombre"`
	}
	err := client.create(context.Background(), "atletas", map[string]string{"nombre": "Valeria"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "test-token", gotAuth)
	assert.Equal(t, "/api/collections/atletas/records", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "rec1", out.ID)
	assert.Equal(t, "Valeria", out.Name)
}

func Test_getOne_notFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":404,"message":"The requested resource wasn't found."}`, http.StatusNotFound)
	}))
	defer srv.Close()

	var out struct{}
	err := client.getOne(context.Background(), "atletas", "missing", &out)
	assert.Equal(t, ErrNotFound, err)
}

func Test_do_decodesErrorPayload(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{
			"code": 400,
			"message": "Failed to create record.",
			"data": {
				"cedula": {"code": "validation_not_unique", "message": "Value must be unique."},
				"nombre": {"code": "validation_required", "message": "Missing required value."}
			}
		}`)
	}))
	defer srv.Close()

	err := client.create(context.Background(), "atletas", map[string]string{}, nil)
	require.Error(t, err)

	remoteErr, ok := errors.Cause(err).(*core.RemoteError)
	require.True(t, ok)
	assert.Equal(t, "create", remoteErr.Op)
	assert.Equal(t, "atletas", remoteErr.Collection)
	assert.EqualError(t, remoteErr.Err, "Failed to create record.")
	require.Len(t, remoteErr.Fields, 2)
	// fields come back sorted
	assert.Equal(t, "cedula", remoteErr.Fields[0].Field)
	assert.Equal(t, "Value must be unique.", remoteErr.Fields[0].Error)
	assert.Equal(t, "nombre", remoteErr.Fields[1].Field)
}

func Test_do_unexpectedStatusWithoutPayload(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := client.getOne(context.Background(), "atletas", "rec1", &struct{}{})
	require.Error(t, err)

	remoteErr, ok := errors.Cause(err).(*core.RemoteError)
	require.True(t, ok)
	assert.EqualError(t, remoteErr.Err, "unexpected status 502")
}

func Test_getFullList_pages(t *testing.T) {
	type record struct {
		ID string `json:"id"`
	}
	pages := map[string]listResult{
		"1": {Page: 1, TotalPages: 2, Items: []json.RawMessage{
			json.RawMessage(`{"id":"a"}`), json.RawMessage(`{"id":"b"}`),
		}},
		"2": {Page: 2, TotalPages: 2, Items: []json.RawMessage{
			json.RawMessage(`{"id":"c"}`),
		}},
	}
	var gotFilters []string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilters = append(gotFilters, r.URL.Query().Get("filter"))
		json.NewEncoder(w).Encode(pages[r.URL.Query().Get("page")])
	}))
	defer srv.Close()

	items, err := client.getFullList(context.Background(), "matriculas", "activo=true", "-created")
	require.NoError(t, err)
	require.Len(t, items, 3)

	var last record
	require.NoError(t, json.Unmarshal(items[2], &last))
	assert.Equal(t, "c", last.ID)
	assert.Equal(t, []string{"activo=true", "activo=true"}, gotFilters)
}

func Test_getFirstMatch(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("perPage"))
		if r.URL.Query().Get("filter") == "username='vdiaz'" {
			json.NewEncoder(w).Encode(listResult{TotalItems: 1, Items: []json.RawMessage{
				json.RawMessage(`{"id":"usr1","username":"vdiaz"}`),
			}})
			return
		}
		json.NewEncoder(w).Encode(listResult{})
	}))
	defer srv.Close()

	var out struct {
		ID string `json:"id"`
	}
	err := client.getFirstMatch(context.Background(), "usuarios", "username="+quote("vdiaz"), &out)
	require.NoError(t, err)
	assert.Equal(t, "usr1", out.ID)

	err = client.getFirstMatch(context.Background(), "usuarios", "username="+quote("nobody"), &out)
	assert.Equal(t, ErrNotFound, err)
}

func Test_quote(t *testing.T) {
	assert.Equal(t, `'V-123'`, quote("V-123"))
	assert.Equal(t, `'O\'Brien'`, quote("O'Brien"))
}

func Test_timeRoundTrip(t *testing.T) {
	want := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-05 14:30:00.000Z", formatTime(want))
	assert.Equal(t, want, parseTime("2026-03-05 14:30:00.000Z"))
	assert.Equal(t, want, parseTime("2026-03-05T14:30:00Z")) // RFC 3339 fallback
	assert.True(t, parseTime("").IsZero())
	assert.Equal(t, "", formatTime(time.Time{}))
}

func Test_collectionFromURL(t *testing.T) {
	assert.Equal(t, "clases_horarios", collectionFromURL("/api/collections/clases_horarios/records/abc"))
	assert.Equal(t, "/health", collectionFromURL("/health"))
}
