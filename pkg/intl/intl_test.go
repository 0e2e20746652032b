package intl_test

import (
	"context"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/ropeworks/ropeworks/pkg/intl"
)

func newTestBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	_, err := bundle.ParseMessageFileBytes(
		[]byte("[Quiz]\nNotFound = \"Quiz not found\"\n"), "en.toml",
	)
	require.NoError(t, err)
	_, err = bundle.ParseMessageFileBytes(
		[]byte("[Quiz]\nNotFound = \"Cuestionario no encontrado\"\n"), "es.toml",
	)
	require.NoError(t, err)
	return bundle
}

func TestMustT_LocalizesByLanguage(t *testing.T) {
	bundle := newTestBundle(t)

	ctx := intl.WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "es"))
	require.Equal(t, "Cuestionario no encontrado", intl.MustT(ctx, "Quiz.NotFound"))

	ctx = intl.WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "en"))
	require.Equal(t, "Quiz not found", intl.MustT(ctx, "Quiz.NotFound"))
}

func TestMustT_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	bundle := newTestBundle(t)

	ctx := intl.WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "fr"))
	require.Equal(t, "Quiz not found", intl.MustT(ctx, "Quiz.NotFound"))
}

func TestMustT_ReturnsMessageIDWithoutLocalizer(t *testing.T) {
	require.Equal(t, "Quiz.NotFound", intl.MustT(context.Background(), "Quiz.NotFound"))
}

func TestMustT_ReturnsMessageIDForUnknownKey(t *testing.T) {
	bundle := newTestBundle(t)

	ctx := intl.WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "en"))
	require.Equal(t, "Errors.Unknown", intl.MustT(ctx, "Errors.Unknown"))
}
