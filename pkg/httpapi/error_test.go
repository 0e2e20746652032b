package httpapi_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/shared"
)

func TestQueryFieldErrors_NamesOffendingParameter(t *testing.T) {
	var params struct {
		Limit int `form:"limit"`
	}
	err := shared.Decoder.Decode(&params, url.Values{"limit": {"ten"}})
	require.Error(t, err)

	fields := httpapi.QueryFieldErrors(err)
	require.Contains(t, fields, "limit")
}

func TestQueryFieldErrors_FallsBackToQueryKey(t *testing.T) {
	fields := httpapi.QueryFieldErrors(url.EscapeError("%zz"))
	require.Equal(t, httpapi.FieldErrors{"query": "malformed query string"}, fields)
}
