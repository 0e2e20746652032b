package shared

import "github.com/go-playground/form"

// Decoder decodes url.Values (query strings and form bodies) into typed
// structs across controllers.
var Decoder = form.NewDecoder()

func init() {
	Decoder.SetTagName("form")
}
