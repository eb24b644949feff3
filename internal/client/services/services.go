package services

import (
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

// Set bundles the services handed to a front end.
type Set struct {
	Auth       AuthService
	Account    AccountService
	Conversion ConversionService
}

func New(client api.Client, r *router.Router, progressInterval time.Duration, log logging.Logger) *Set {
	if log == nil {
		log = logging.Nop()
	}
	return &Set{
		Auth:       NewAuthService(client, r, log.With("service", "auth")),
		Account:    NewAccountService(client, r.Session(), log.With("service", "account")),
		Conversion: NewConversionService(client, progressInterval, log.With("service", "conversion")),
	}
}
