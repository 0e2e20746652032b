package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

func localizedRequest(t *testing.T, lang string) *http.Request {
	t.Helper()
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for path, data := range map[string]string{
		"en.toml": "[Quiz]\nNotFound = \"Quiz not found\"\n",
		"es.toml": "[Quiz]\nNotFound = \"Cuestionario no encontrado\"\n",
	} {
		_, err := bundle.ParseMessageFileBytes([]byte(data), path)
		require.NoError(t, err)
	}
	r := httptest.NewRequest(http.MethodGet, "/api/quiz/unknown", nil)
	ctx := intl.WithLocalizer(r.Context(), i18n.NewLocalizer(bundle, lang))
	return r.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Code, envelope.Message
}

func TestQuizController_NotFoundMessageLocalized(t *testing.T) {
	rec := httptest.NewRecorder()
	(&QuizController{}).writeError(rec, localizedRequest(t, "es"), quiz.ErrQuizNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	code, message := decodeEnvelope(t, rec)
	require.Equal(t, "NOT_FOUND", code)
	require.Equal(t, "Cuestionario no encontrado", message)
}

func TestQuizController_NotFoundMessageDefaultsToEnglish(t *testing.T) {
	rec := httptest.NewRecorder()
	(&QuizController{}).writeError(rec, localizedRequest(t, ""), quiz.ErrQuizNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	_, message := decodeEnvelope(t, rec)
	require.Equal(t, "Quiz not found", message)
}
