package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/oratioapp/oratio-backend/internal/config"
	"github.com/oratioapp/oratio-backend/internal/db"
	"github.com/oratioapp/oratio-backend/internal/httpapi"
	"github.com/oratioapp/oratio-backend/internal/httpapi/handlers"
	"github.com/oratioapp/oratio-backend/internal/store/rabbitmq"
	"github.com/oratioapp/oratio-backend/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	limiter := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
		cfg.RateLimitQuota, cfg.RateLimitWindow)
	defer limiter.Close()

	// The async endpoint degrades to 503 when the broker is unreachable;
	// sync generation keeps working.
	var rabbit handlers.JobPublisher
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("rabbit unavailable, async generation disabled: %v", err)
	} else {
		rabbit = pub
		defer pub.Close()
	}

	h, err := handlers.NewHandler(gdb, cfg, limiter, rabbit)
	if err != nil {
		log.Fatalf("handler init: %v", err)
	}

	r := httpapi.NewRouter(h)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // generation runs are slow by nature
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
