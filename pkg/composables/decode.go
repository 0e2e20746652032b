package composables

import (
	"net/url"

	"github.com/ropeworks/ropeworks/pkg/shared"
)

func decodeValues(v any, values url.Values) error {
	return shared.Decoder.Decode(v, values)
}
