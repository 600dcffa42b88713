package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	ttl := flag.Duration("ttl", 90*time.Second, "relay TTL without a heartbeat before it is dropped")
	sweep := flag.Duration("sweep", 30*time.Second, "how often expired relays are removed")
	flag.Parse()

	reg := NewRegistry(*ttl)
	reg.Start(*sweep)
	defer reg.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           NewMux(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[master] listening on %s (ttl=%s)", srv.Addr, *ttl)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[master] fatal: %v", err)
	}
	log.Println("[master] stopped")
}
