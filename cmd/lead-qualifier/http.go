package main

import (
	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/transport/httpapi"
)

func newHTTPServer(a *app) *httpapi.Server {
	return httpapi.NewServer(a.service(cfg), a.industries, a.ledger, httpapi.Options{
		RequestTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		Checks:         a.checks,
	}, log)
}
