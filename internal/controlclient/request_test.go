package controlclient_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/specialistvlad/mashgo/internal/controlclient"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestBuildRequest(t *testing.T) {
	svc := newService(t)
	client, _ := newConnectedClient(t, svc)
	base := svc.URL()

	testCases := []struct {
		name          string
		verb          controlclient.Verb
		model         string
		args          string
		checkRequired bool
		wantMethod    string
		wantURL       string
		wantBody      string
	}{
		{
			name:          "create with all required fields",
			verb:          controlclient.Create,
			model:         "node",
			args:          `hostname=n1 systemimage=rocky comment="rack 4"`,
			checkRequired: true,
			wantMethod:    http.MethodPost,
			wantURL:       base + "nodes/",
			wantBody:      `{"hostname": "n1", "systemimage": "rocky", "comment": "rack 4"}`,
		},
		{
			name:       "update addresses the resource by id",
			verb:       controlclient.Update,
			model:      "node",
			args:       "id=7 comment=moved",
			wantMethod: http.MethodPatch,
			wantURL:    base + "nodes/7/",
			wantBody:   `{"comment": "moved"}`,
		},
		{
			name:       "retrieve without arguments lists everything",
			verb:       controlclient.Retrieve,
			model:      "node",
			wantMethod: http.MethodGet,
			wantURL:    base + "nodes/",
		},
		{
			name:       "retrieve builds a query string",
			verb:       controlclient.Retrieve,
			model:      "node",
			args:       "hostname=n1 systemimage=rocky",
			wantMethod: http.MethodGet,
			wantURL:    base + "nodes/?hostname=n1&systemimage=rocky&",
		},
		{
			name:       "delete by pk",
			verb:       controlclient.Delete,
			model:      "node",
			args:       "pk=12",
			wantMethod: http.MethodDelete,
			wantURL:    base + "nodes/12/?pk=12&",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := client.BuildRequest(tc.verb, tc.model, tc.args, tc.checkRequired)
			require.NoError(t, err)

			assert.Equal(t, tc.wantMethod, req.Method)
			assert.Equal(t, tc.wantURL, req.URL)
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, "Api-Key secret", req.Header.Get("Authorization"))
			if tc.wantBody == "" {
				assert.Nil(t, req.Body)
			} else {
				assert.JSONEq(t, tc.wantBody, string(req.Body))
			}
		})
	}
}

func TestBuildRequest_Rejected(t *testing.T) {
	svc := newService(t)
	client, transport := newConnectedClient(t, svc)
	sentAfterConnect := transport.calls.Load()

	testCases := []struct {
		name          string
		verb          controlclient.Verb
		model         string
		args          string
		checkRequired bool
		wantErr       error
	}{
		{
			name:          "missing required field",
			verb:          controlclient.Create,
			model:         "node",
			args:          "hostname=n1",
			checkRequired: true,
			wantErr:       shellerr.ErrMissingRequiredField,
		},
		{
			name:    "unknown field",
			verb:    controlclient.Update,
			model:   "node",
			args:    "id=1 colour=red",
			wantErr: shellerr.ErrUnknownField,
		},
		{
			name:    "unknown model",
			verb:    controlclient.Retrieve,
			model:   "switch",
			wantErr: shellerr.ErrUnknownModel,
		},
		{
			name:    "argument without equals sign",
			verb:    controlclient.Create,
			model:   "systemimage",
			args:    "name",
			wantErr: shellerr.ErrSyntax,
		},
		{
			name:    "unterminated quote",
			verb:    controlclient.Create,
			model:   "systemimage",
			args:    `name="rocky`,
			wantErr: shellerr.ErrSyntax,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.BuildRequest(tc.verb, tc.model, tc.args, tc.checkRequired)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Equal(t, sentAfterConnect, transport.calls.Load(), "rejected requests must never reach the wire")
}

func TestExecute(t *testing.T) {
	svc := newService(t)
	svc.Respond(http.MethodPost, "/nodes/", http.StatusCreated, `{"id": 3, "hostname": "n1"}`)
	client, _ := newConnectedClient(t, svc)

	req, err := client.BuildRequest(controlclient.Create, "node", "hostname=n1 systemimage=rocky", true)
	require.NoError(t, err)
	result, err := client.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, cty.StringVal("n1"), result.GetAttr("hostname"))
	assert.True(t, result.GetAttr("id").Equals(cty.NumberIntVal(3)).True())

	posted := svc.RequestsTo("/nodes/")
	require.Len(t, posted, 1)
	assert.Equal(t, http.MethodPost, posted[0].Method)
	assert.JSONEq(t, `{"hostname": "n1", "systemimage": "rocky"}`, posted[0].Body)
}

func TestDecodeResult(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		check   func(t *testing.T, v cty.Value)
		wantErr error
	}{
		{
			name: "empty body is null",
			body: "",
			check: func(t *testing.T, v cty.Value) {
				assert.True(t, v.IsNull())
			},
		},
		{
			name: "literal null",
			body: " null\n",
			check: func(t *testing.T, v cty.Value) {
				assert.True(t, v.IsNull())
			},
		},
		{
			name: "list of objects",
			body: `[{"hostname": "n1"}, {"hostname": "n2"}]`,
			check: func(t *testing.T, v cty.Value) {
				require.True(t, v.Type().IsTupleType())
				assert.Equal(t, 2, v.LengthInt())
				assert.Equal(t, cty.StringVal("n2"), v.Index(cty.NumberIntVal(1)).GetAttr("hostname"))
			},
		},
		{
			name: "scalar",
			body: `"ok"`,
			check: func(t *testing.T, v cty.Value) {
				assert.Equal(t, cty.StringVal("ok"), v)
			},
		},
		{
			name:    "not json",
			body:    "<html>oops</html>",
			wantErr: shellerr.ErrResultParse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := controlclient.DecodeResult([]byte(tc.body))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, v)
		})
	}
}

func TestVerb(t *testing.T) {
	assert.Equal(t, "PATCH", controlclient.Update.Method())
	assert.Equal(t, "delete", controlclient.Delete.String())
}
