package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","email":"nope"}`))
	var dest sample
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{"name": "is required", "email": "must be a valid email"}, typed.Details())
}

func TestDecodeJSONBodyRejectsUnknownFieldsAndEmptyBodies(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","email":"a@b.co","extra":1}`))
	var dest sample
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &dest), pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.Equal(t, "request body required", pkgerrors.As(err).Message())
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?confirm=true&size=20&bad=x", nil)

	confirm, err := ParseQueryBool(req, "confirm")
	require.NoError(t, err)
	assert.True(t, confirm)

	missing, err := ParseQueryBool(req, "missing")
	require.NoError(t, err)
	assert.False(t, missing)

	_, err = ParseQueryBool(req, "bad")
	assert.Error(t, err)

	size, err := ParseQueryInt(req, "size", 10, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 20, size)

	_, err = ParseQueryInt(req, "size", 10, 1, 5)
	assert.Error(t, err)

	_, err = RequireQuery(req, "key")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello\tworld", SanitizeString("  hello\tworld\x00 ", 0))
	assert.Equal(t, "héll", SanitizeString("héllo", 4))
}
