package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type selfValidatingRequest struct {
	err error
}

func (r selfValidatingRequest) Validate() error {
	return r.err
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com"}`))

	var decoded taggedRequest
	require.NoError(t, DecodeJSON(req, &decoded))
	assert.Equal(t, "a@b.com", decoded.Email)

	bad := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	assert.Error(t, DecodeJSON(bad, &decoded))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(taggedRequest{Email: "a@b.com"}))
	assert.Error(t, ValidateRequest(taggedRequest{Email: "not-an-email"}))
	assert.Error(t, ValidateRequest(taggedRequest{}))

	// Types with their own Validate method bypass the tag validator.
	sentinel := errors.New("bad request")
	assert.NoError(t, ValidateRequest(selfValidatingRequest{}))
	assert.ErrorIs(t, ValidateRequest(selfValidatingRequest{err: sentinel}), sentinel)
}
