package main

import (
	"encoding/binary"
	"encoding/json"
	"math"
)

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgCommand  = "cmd"
	MsgCamera   = "camera"
	MsgCreate   = "create"  // create session
	MsgList     = "list"    // list sessions
	MsgCheck    = "check"   // check if session exists
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // re-validate a stored token
)

// Server -> Client message types
const (
	MsgState    = "state"
	MsgWelcome  = "welcome"
	MsgSessions = "sessions"
	MsgJoined   = "joined"
	MsgCreated  = "created" // session created, client should navigate
	MsgError    = "error"
	MsgChecked  = "checked" // session check response
	MsgWave     = "wave"    // a new wave started
	MsgAuthOK   = "auth_ok"
)

// Binary client frame: [0x02, kind, x float32 LE, y float32 LE, flags]
const (
	binCommandTag  = 0x02
	binCommandSize = 11
	binFlagScreen  = 0x01
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D is decoded per message type
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// CommandMsg orders the sender's advocate. X/Y are world coordinates unless
// Screen is set, in which case they are pixels on the sender's camera.
type CommandMsg struct {
	Kind   string  `json:"k"` // move, attack_move, attack, stop
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Screen bool    `json:"s,omitempty"`
}

// CameraMsg reports the sender's camera so screen commands can be projected
type CameraMsg struct {
	Eye    [3]float64 `json:"eye"`
	Target [3]float64 `json:"target"`
	Up     [3]float64 `json:"up"`
	FovY   float64    `json:"fov"`
	Width  float64    `json:"w"`
	Height float64    `json:"h"`
}

// Rig converts the message into a CameraRig
func (m CameraMsg) Rig() CameraRig {
	return CameraRig{
		Eye:    Vec3{m.Eye[0], m.Eye[1], m.Eye[2]},
		Target: Vec3{m.Target[0], m.Target[1], m.Target[2]},
		Up:     Vec3{m.Up[0], m.Up[1], m.Up[2]},
		FovY:   m.FovY,
		Width:  m.Width,
		Height: m.Height,
	}
}

// JoinMsg is sent when player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
	Team      *int   `json:"team,omitempty"` // nil = auto-balance
}

// CreateMsg is sent when player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
}

// UnitState is broadcast per unit
type UnitState struct {
	ID     uint32  `json:"id" msgpack:"id"`
	Kind   int     `json:"k" msgpack:"k"`
	Team   int     `json:"tm" msgpack:"tm"`
	Lane   int     `json:"l" msgpack:"l"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"` // facing radians
	Action int     `json:"ac" msgpack:"ac"`
	HP     int     `json:"hp" msgpack:"hp"`
	MaxHP  int     `json:"mhp" msgpack:"mhp"`
	Owner  string  `json:"o,omitempty" msgpack:"o,omitempty"`
	Name   string  `json:"n,omitempty" msgpack:"n,omitempty"`
}

// WaveState describes the wave scheduler
type WaveState struct {
	Number   int     `json:"n" msgpack:"n"`
	Spawning bool    `json:"s" msgpack:"s"`
	Index    int     `json:"i" msgpack:"i"`
	NextIn   float64 `json:"t" msgpack:"t"` // seconds to the next wave
}

// GameState is the full state broadcast, sent as a msgpack binary frame
type GameState struct {
	Units []UnitState `json:"u" msgpack:"u"`
	Wave  WaveState   `json:"w" msgpack:"w"`
	Tick  uint64      `json:"tick" msgpack:"tick"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID     string `json:"id"`
	UnitID uint32 `json:"uid"`
	Team   int    `json:"team"`
}

// WaveMsg is broadcast when a wave starts
type WaveMsg struct {
	Number int `json:"n"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
	Wave    int    `json:"wave"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}

// RegisterMsg / LoginMsg carry account credentials
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg re-validates a stored token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
}

// EncodeCommandFrame packs a command into the compact binary client frame
func EncodeCommandFrame(kind CommandKind, x, y float32, screen bool) []byte {
	buf := make([]byte, binCommandSize)
	buf[0] = binCommandTag
	buf[1] = byte(kind)
	binary.LittleEndian.PutUint32(buf[2:6], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[6:10], math.Float32bits(y))
	if screen {
		buf[10] = binFlagScreen
	}
	return buf
}

// DecodeCommandFrame unpacks a binary client frame into a CommandMsg
func DecodeCommandFrame(buf []byte) (CommandMsg, bool) {
	if len(buf) != binCommandSize || buf[0] != binCommandTag {
		return CommandMsg{}, false
	}
	kind := CommandKind(buf[1])
	if kind < CmdMove || kind > CmdStop {
		return CommandMsg{}, false
	}
	x := math.Float32frombits(binary.LittleEndian.Uint32(buf[2:6]))
	y := math.Float32frombits(binary.LittleEndian.Uint32(buf[6:10]))
	if math.IsNaN(float64(x)) || math.IsNaN(float64(y)) || math.IsInf(float64(x), 0) || math.IsInf(float64(y), 0) {
		return CommandMsg{}, false
	}
	return CommandMsg{
		Kind:   kind.String(),
		X:      float64(x),
		Y:      float64(y),
		Screen: buf[10]&binFlagScreen != 0,
	}, true
}
