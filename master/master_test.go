package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/automoto/fingerdrop/shared/directory"
)

func TestRegistryExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	reg := NewRegistry(90 * time.Second)
	reg.now = func() time.Time { return now }

	stale := reg.Register(directory.ServerInfo{Name: "stale", Address: "a:1"})
	fresh := reg.Register(directory.ServerInfo{Name: "fresh", Address: "b:1"})

	now = now.Add(60 * time.Second)
	if !reg.Heartbeat(fresh, 2, 1) {
		t.Fatal("heartbeat for known relay failed")
	}

	now = now.Add(30 * time.Second)
	if got := reg.Expire(); got != 1 {
		t.Fatalf("expired got=%d want=1", got)
	}
	if reg.Heartbeat(stale, 0, 0) {
		t.Fatal("heartbeat for expired relay should fail")
	}

	list := reg.List()
	if len(list) != 1 || list[0].Name != "fresh" || list[0].Peers != 2 || list[0].Rooms != 1 {
		t.Fatalf("list got=%+v", list)
	}
}

func TestListSortedByName(t *testing.T) {
	reg := NewRegistry(time.Minute)
	reg.Register(directory.ServerInfo{Name: "zeta", Address: "z:1"})
	reg.Register(directory.ServerInfo{Name: "alpha", Address: "a:1"})

	list := reg.List()
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zeta" {
		t.Fatalf("list order got=%+v", list)
	}
}

func TestHandlers(t *testing.T) {
	reg := NewRegistry(time.Minute)
	srv := httptest.NewServer(NewMux(reg))
	defer srv.Close()

	bad, err := http.Post(srv.URL+"/servers/register", "application/json", bytes.NewBufferString(`{"name":""}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing name status got=%d want=400", bad.StatusCode)
	}

	c := directory.NewClient(srv.URL)
	id, err := c.Register(directory.RegisterRequest{Name: "relay", Address: "localhost:7373", MaxPeers: 2, Version: "1.0.0"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Heartbeat(directory.HeartbeatRequest{ID: id, Peers: 1, Rooms: 1}); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	servers, err := c.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(servers) != 1 || servers[0].ID != id || servers[0].Peers != 1 || servers[0].Version != "1.0.0" {
		t.Fatalf("list got=%+v", servers)
	}

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	var status map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil || status["status"] != "ok" {
		t.Fatalf("health got=%v err=%v", status, err)
	}
}
