package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/automoto/fingerdrop/server/core"
	"github.com/automoto/fingerdrop/shared/netconfig"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; flags and the process environment still apply.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[relay] Warning: failed to load .env: %v", err)
	}

	port := flag.Uint("port", envUint("RELAY_PORT", netconfig.DefaultRelayPort), "necs websocket port")
	jsonPort := flag.Uint("json-port", envUint("RELAY_JSON_PORT", netconfig.DefaultJSONPort), "JSON bridge port (0 disables)")
	maxPeers := flag.Int("max-peers", int(envUint("RELAY_MAX_PEERS", netconfig.DefaultMaxPeers)), "peers per room")
	tickRate := flag.Int("tickrate", int(envUint("RELAY_TICKRATE", netconfig.DefaultTickRate)), "shadow simulation ticks per second")
	name := flag.String("name", envString("RELAY_NAME", "Fingerdrop Relay"), "relay display name")
	version := flag.String("version", envString("RELAY_VERSION", netconfig.ProtocolVersion), "required client version (empty = accept any)")
	masterURL := flag.String("master", envString("MASTER_URL", ""), "master server URL (empty = do not register)")
	publicAddr := flag.String("public-address", envString("RELAY_PUBLIC_ADDRESS", ""), "address announced to the master")
	flag.Parse()

	server := core.NewServer(core.Config{
		Name:     *name,
		Version:  *version,
		MaxPeers: *maxPeers,
		TickRate: *tickRate,
	})

	var reg *core.Registration
	if *masterURL != "" {
		if *publicAddr == "" {
			log.Fatalf("[relay] -public-address is required when -master is set")
		}
		reg = core.NewRegistration(*masterURL, *name, *publicAddr, *version, server)
		reg.Start()
	}

	if *jsonPort != 0 {
		go func() {
			if err := server.StartBridge(*jsonPort); err != nil {
				log.Printf("[bridge] stopped: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[relay] shutting down")
		if reg != nil {
			reg.Stop()
		}
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("[relay] starting %q on port %d (max peers: %d, tick rate: %d/s, version: %s)",
		*name, *port, *maxPeers, *tickRate, *version)
	if err := server.Start(*port); err != nil {
		log.Fatalf("[relay] server error: %v", err)
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint) uint {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("[relay] Warning: ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return uint(n)
}
