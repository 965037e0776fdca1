package handler

import (
	"net/http"
	"sync"

	"innkeep/config"
	"innkeep/di"
	"innkeep/shared/logger"
)

var (
	boot    sync.Once
	service http.Handler
)

// Handler is the serverless entrypoint. Warm invocations reuse the service built on the first request.
func Handler(w http.ResponseWriter, r *http.Request) {
	boot.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)

		service = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	service.ServeHTTP(w, r)
}
