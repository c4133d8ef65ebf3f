package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name"  validate:"required,max=5"`
	Count int    `json:"count" validate:"min=0"`
}

type selfValidating struct {
	OK bool `json:"ok"`
}

func (s *selfValidating) Validate() error {
	if !s.OK {
		return errors.New("not ok")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid object", body: `{"name":"gato","count":2}`},
		{name: "empty body", body: "", wantErr: true},
		{name: "malformed json", body: `{"name":`, wantErr: true},
		{name: "unknown field", body: `{"name":"gato","extra":true}`, wantErr: true},
		{name: "trailing object", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", MaxRequestBodyBytes) + `"}`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			var payload testPayload
			err := DecodeJSON(w, req, &payload)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "gato", payload.Name)
			assert.Equal(t, 2, payload.Count)
		})
	}

	t.Run("empty body error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		err := DecodeJSON(httptest.NewRecorder(), req, &testPayload{})
		assert.ErrorIs(t, err, ErrEmptyBody)
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{name: "valid struct", req: &testPayload{Name: "gato"}},
		{name: "missing required", req: &testPayload{}, wantErr: true},
		{name: "too long", req: &testPayload{Name: "gatito"}, wantErr: true},
		{name: "custom validator passes", req: &selfValidating{OK: true}},
		{name: "custom validator fails", req: &selfValidating{}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
