package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

func decodeJSON(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func requestMeta(r *http.Request) map[string]string {
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		return map[string]string{"requestId": id}
	}
	return nil
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	composables.UseLogger(r.Context()).WithError(err).Error("request failed")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), requestMeta(r))
}
