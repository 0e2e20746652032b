package authz

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/serrors"
)

// Config describes where the casbin model/policy live and how denials are
// applied.
type Config struct {
	ModelPath    string
	PolicyPath   string
	FlagPath     string
	FlagMode     Mode
	FlagProvider FlagProvider
	Logger       *logrus.Logger
}

// DefaultConfig builds a Config from the process configuration.
func DefaultConfig() Config {
	conf := configuration.Use()
	return Config{
		ModelPath:  conf.Authz.ModelPath,
		PolicyPath: conf.Authz.PolicyPath,
		FlagPath:   conf.Authz.FlagConfigPath,
		FlagMode:   ParseMode(conf.Authz.Mode),
		Logger:     conf.Logger(),
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ModelPath) == "" {
		return serrors.NewError("AUTHZ_CONFIG", "model path is required", "Authorization.Config")
	}
	if strings.TrimSpace(c.PolicyPath) == "" {
		return serrors.NewError("AUTHZ_CONFIG", "policy path is required", "Authorization.Config")
	}
	return nil
}

func (c Config) normalized() Config {
	if c.FlagMode == "" {
		c.FlagMode = ModeShadow
	}
	return c
}
