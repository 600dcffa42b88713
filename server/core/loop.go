package core

import (
	"log"
	"time"
)

const statsInterval = 30 * time.Second

type GameLoop struct {
	server   *Server
	tickRate int
	stopChan chan struct{}

	lastStats time.Time
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("[relay] game loop started at %d ticks/second", g.tickRate)
	g.lastStats = time.Now()

	for {
		select {
		case <-g.stopChan:
			log.Println("[relay] game loop stopped")
			return
		case now := <-ticker.C:
			g.tick()
			if now.Sub(g.lastStats) >= statsInterval {
				g.lastStats = now
				g.logStats()
			}
		}
	}
}

func (g *GameLoop) Stop() {
	close(g.stopChan)
}

func (g *GameLoop) tick() {
	g.server.ProcessCommands(1 / float64(g.tickRate))
}

func (g *GameLoop) logStats() {
	for _, room := range g.server.snapshotRooms() {
		st := room.Stats()
		log.Printf("[relay] room %s: peers=%d circles=%d fingers=%d", room.ID, st.Peers, st.Circles, st.Fingers)
	}
}
