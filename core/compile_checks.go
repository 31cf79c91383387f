package core

import (
	"net/http"

	glog "github.com/goliatone/go-logger/glog"
)

var (
	_ TokenFetcher = (*Exchanger)(nil)
	_ GrantFetcher = (*Exchanger)(nil)
	_ HTTPDoer     = (*http.Client)(nil)
	_ SecretSource = SecretSourceFunc(nil)

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
