package main

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	BroadcastRate        = 15 // state broadcasts per second
	maxPlayersPerSession = 10
)

var ErrSessionFull = errors.New("session full")

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game hosts one live simulation: it owns the tick loop, maps connected
// players to their advocates and fans state out to clients.
type Game struct {
	mu             sync.RWMutex
	sim            *Simulation
	cfg            SimConfig
	players        map[string]*Player
	clients        map[string]Broadcaster // playerID -> client
	stop           chan struct{}
	broadcastEvery uint64
	matchLog       *MatchLog
	matchID        int64
}

// NewGame creates a new Game. matchLog may be nil.
func NewGame(cfg SimConfig, matchLog *MatchLog, matchID int64) (*Game, error) {
	sim, err := NewSimulation(cfg)
	if err != nil {
		return nil, err
	}
	every := uint64(cfg.TickRate / BroadcastRate)
	if every == 0 {
		every = 1
	}
	return &Game{
		sim:            sim,
		cfg:            cfg,
		players:        make(map[string]*Player),
		clients:        make(map[string]Broadcaster),
		stop:           make(chan struct{}),
		broadcastEvery: every,
		matchLog:       matchLog,
		matchID:        matchID,
	}, nil
}

// Run starts the game loop
func (g *Game) Run() {
	ticker := time.NewTicker(g.cfg.TickDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.stop:
		return
	default:
	}
	close(g.stop)
}

// AddPlayer places a new advocate for the player. A nil team auto-balances.
func (g *Game) AddPlayer(name string, team *Team) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= maxPlayersPerSession {
		return nil, ErrSessionFull
	}

	t := assignTeam(g.players)
	if team != nil {
		if !team.Valid() {
			return nil, fmt.Errorf("invalid team %d", int(*team))
		}
		t = *team
	}

	id := GenerateID(4)
	u, err := g.sim.AddAdvocate(id, name, t)
	if err != nil {
		return nil, err
	}
	p := NewPlayer(id, name, t, u.ID)
	g.players[id] = p
	g.matchLog.Track(MatchEvent{Type: EvtPlayerJoin, MatchID: g.matchID, Tick: g.sim.TickCount(), Data: name})
	return p, nil
}

// RemovePlayer removes a player and their advocate from the game
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.players[id]; !ok {
		return
	}
	if err := g.sim.RemoveAdvocate(id); err != nil {
		log.Printf("remove player %s: %v", id, err)
	}
	delete(g.players, id)
	delete(g.clients, id)
	g.matchLog.Track(MatchEvent{Type: EvtPlayerLeave, MatchID: g.matchID, Tick: g.sim.TickCount()})
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// LinkAccount records the authenticated account behind a player
func (g *Game) LinkAccount(playerID string, accountID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[playerID]; ok {
		p.AuthPlayerID = accountID
	}
}

// HasPlayer checks if a player exists in the game
func (g *Game) HasPlayer(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.players[id]
	return ok
}

// PlayerCount returns the number of players
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.players)
}

// WaveNumber returns how many waves have started
func (g *Game) WaveNumber() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sim.Waves().Wave
}

// Ticks returns the number of simulated ticks
func (g *Game) Ticks() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sim.TickCount()
}

// SetCamera stores the camera a player's screen commands are projected with
func (g *Game) SetCamera(playerID string, rig CameraRig) error {
	if !rig.Valid() {
		return fmt.Errorf("invalid camera")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	p.Camera = &rig
	return nil
}

// HandleCommand queues an order for the player's advocate; it is applied on
// the next tick.
func (g *Game) HandleCommand(playerID string, msg CommandMsg) error {
	kind, ok := ParseCommandKind(msg.Kind)
	if !ok {
		return fmt.Errorf("unknown command %q", msg.Kind)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	var pt Vec2
	if kind != CmdStop { // stop has no point
		if pt, ok = p.ResolvePoint(msg); !ok {
			return fmt.Errorf("point is not on the ground")
		}
		half := g.cfg.MapHalf
		pt = V2(Clamp(pt.X, -half, half), Clamp(pt.Y, -half, half))
	}

	g.sim.Enqueue(Command{Owner: playerID, Kind: kind, Point: pt})
	p.Commands++
	g.matchLog.Track(MatchEvent{
		Type:     EvtCommand,
		MatchID:  g.matchID,
		PlayerID: p.AuthPlayerID,
		Tick:     g.sim.TickCount(),
		Data:     kind.String(),
	})
	return nil
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sim.Tick(g.cfg.TickDuration())

	for _, ev := range g.sim.DrainEvents() {
		switch ev.Type {
		case EventWaveStarted:
			g.broadcastMsg(Envelope{T: MsgWave, Data: WaveMsg{Number: ev.Wave}})
			g.matchLog.Track(MatchEvent{Type: EvtWaveStart, MatchID: g.matchID, Tick: ev.Tick, Data: fmt.Sprint(ev.Wave)})
		case EventUnitsSpawned:
			g.matchLog.Track(MatchEvent{Type: EvtSpawn, MatchID: g.matchID, Tick: ev.Tick, Data: fmt.Sprint(ev.Count)})
		}
	}

	if g.sim.TickCount()%g.broadcastEvery == 0 {
		g.broadcastState()
	}
}

// snapshot builds the wire state; caller holds the lock
func (g *Game) snapshot() GameState {
	return GameState{
		Units: g.sim.States(),
		Wave:  g.sim.WaveState(),
		Tick:  g.sim.TickCount(),
	}
}

// broadcastState sends the current game state to all clients
func (g *Game) broadcastState() {
	if len(g.clients) == 0 {
		return
	}
	data, err := msgpack.Marshal(g.snapshot())
	if err != nil {
		log.Printf("state marshal error: %v", err)
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}
