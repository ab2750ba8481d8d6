package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fleamarkt/pkg/errors"
)

func testContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	c, rec := testContext()

	require.NoError(t, Success(c, map[string]string{"hello": "world"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.NotEmpty(t, body.Timestamp)
}

func TestErrorEnvelopeWithAppError(t *testing.T) {
	c, rec := testContext()

	require.NoError(t, Error(c, apperrors.NotFound("Product", nil)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decode(t, rec)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "Product not found", body.Error.Message)
}

// Unanticipated errors must not leak internals.
func TestErrorEnvelopeWithUnknownError(t *testing.T) {
	c, rec := testContext()

	require.NoError(t, Error(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

// A syntactically broken body is the caller's fault and must come back
// as 422, not as an internal error.
func TestErrorEnvelopeWithMalformedBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var target struct {
		Title string `json:"title"`
	}
	bindErr := c.Bind(&target)
	require.Error(t, bindErr)

	require.NoError(t, Error(c, bindErr))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
}

func TestValidationErrorEnvelope(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(payload{})
	require.Error(t, err)

	c, rec := testContext()
	require.NoError(t, Error(c, err))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.NotNil(t, body.Error.Details)
}

func TestPaginatedEnvelope(t *testing.T) {
	c, rec := testContext()

	require.NoError(t, Paginated(c, []string{"a", "b"}, 42, 10, 2))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Data    PaginatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(42), body.Data.Total)
	assert.Equal(t, 10, body.Data.Skip)
	assert.Equal(t, 2, body.Data.Limit)
}
