package composables_test

import (
	"net/http/httptest"
	"testing"

	"github.com/go-playground/form"
	"github.com/stretchr/testify/require"

	"github.com/ropeworks/ropeworks/pkg/composables"
)

func TestUseQuery_DecodesPagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/things?limit=10&offset=50", nil)

	params, err := composables.UseQuery(&composables.PaginationParams{Limit: 25}, r)
	require.NoError(t, err)
	require.Equal(t, 10, params.Limit)
	require.Equal(t, 50, params.Offset)
}

func TestUseQuery_KeepsSeededDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/things", nil)

	params, err := composables.UseQuery(&composables.PaginationParams{Limit: 25}, r)
	require.NoError(t, err)
	require.Equal(t, 25, params.Limit)
	require.Equal(t, 0, params.Offset)
}

func TestUseQuery_RejectsMalformedValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/things?limit=ten", nil)

	_, err := composables.UseQuery(&composables.PaginationParams{Limit: 25}, r)
	require.Error(t, err)

	var decodeErrs form.DecodeErrors
	require.ErrorAs(t, err, &decodeErrs)
	require.Contains(t, decodeErrs, "limit")
}

func TestPaginationParams_Validate(t *testing.T) {
	ok := &composables.PaginationParams{Limit: 10, Offset: 0}
	require.Empty(t, ok.Validate())

	bad := &composables.PaginationParams{Limit: 0, Offset: -1}
	fields := bad.Validate()
	require.Contains(t, fields, "limit")
	require.Contains(t, fields, "offset")
}
