package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContextWithQuery(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParsePaginationParamsDefaults(t *testing.T) {
	c := testContextWithQuery(t, "")

	limit, offset := ParsePaginationParams(c)
	assert.Equal(t, DefaultListLimit, limit)
	assert.Equal(t, 0, offset)
}

func TestParsePaginationParamsClampsLimit(t *testing.T) {
	c := testContextWithQuery(t, "limit=9999&offset=20")

	limit, offset := ParsePaginationParams(c)
	assert.Equal(t, MaxListLimit, limit)
	assert.Equal(t, 20, offset)
}

func TestParsePaginationParamsFloorsNegatives(t *testing.T) {
	c := testContextWithQuery(t, "limit=-5&offset=-10")

	limit, offset := ParsePaginationParams(c)
	assert.Equal(t, 1, limit)
	assert.Equal(t, 0, offset)
}

func TestParsePaginationParamsIgnoresGarbage(t *testing.T) {
	c := testContextWithQuery(t, "limit=abc&offset=xyz")

	limit, offset := ParsePaginationParams(c)
	assert.Equal(t, DefaultListLimit, limit)
	assert.Equal(t, 0, offset)
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestParseIDParamRejectsNonPositive(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, raw := range []string{"0", "-3", "abc", ""} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, err := ParseIDParam(c, "id")
		assert.Error(t, err, "value %q", raw)
	}
}
