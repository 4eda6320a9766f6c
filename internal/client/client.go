package client

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"arena-game/internal/game"
	"arena-game/internal/network"
	"arena-game/pkg/logger"
)

// Client is the terminal client: it speaks the newline-delimited JSON
// protocol, drives the lobby menu and relays match input.
type Client struct {
	serverAddr string
	conn       net.Conn
	writer     *bufio.Writer
	writeMu    sync.Mutex

	display *Display
	input   *InputHandler
	logger  *logger.Logger

	mu            sync.Mutex
	playerID      int
	roomID        string
	inGame        bool
	lastHealth    map[int]int
	lastCountdown int

	lobbyCh chan *network.ServerMessage
	done    chan struct{}
}

// NewClient creates a client for the given server address
func NewClient(serverAddr string) *Client {
	display := NewDisplay()
	return &Client{
		serverAddr: serverAddr,
		display:    display,
		input:      NewInputHandler(display),
		logger:     logger.Client,
		lastHealth: make(map[int]int),
		lobbyCh:    make(chan *network.ServerMessage, 8),
		done:       make(chan struct{}),
	}
}

// Start connects, runs the setup flow and enters the lobby loop
func (c *Client) Start() error {
	c.display.PrintBanner()

	conn, err := net.Dial("tcp", c.serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn
	c.writer = bufio.NewWriter(conn)
	c.display.PrintConnected(c.serverAddr)
	c.logger.Info("Connected to server at %s", c.serverAddr)

	go c.messageHandler()

	if err := c.setupPlayer(); err != nil {
		return err
	}
	return c.runLobbyLoop()
}

// Close tears the connection down
func (c *Client) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) sendMessage(msg *network.ClientMessage) error {
	data, err := msg.ToJSON()
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.writer.Write(append(data, '\n')); err != nil {
		return err
	}
	return c.writer.Flush()
}

// setupPlayer prompts for name and character and registers them
func (c *Client) setupPlayer() error {
	name := c.input.GetStringInput("Enter your display name:", 1, 20)
	character := c.input.GetLine("Enter your character (empty for default):")
	if character == "" {
		character = "anaxa"
	}

	if err := c.sendMessage(network.NewSetPlayerInfoMessage(name, character)); err != nil {
		return err
	}
	reply, err := c.waitLobbyReply()
	if err != nil {
		return err
	}
	if reply.Type == network.MsgError {
		return fmt.Errorf("server rejected player info: %s", reply.Message)
	}
	return nil
}

// runLobbyLoop drives the lobby menu until the user quits
func (c *Client) runLobbyLoop() error {
	for {
		if c.isInGame() {
			c.runMatchLoop()
			continue
		}

		c.display.PrintInfo("1. Create room")
		c.display.PrintInfo("2. Join room")
		c.display.PrintInfo("3. List rooms")
		c.display.PrintInfo("4. Quit")

		switch c.input.GetMenuChoice(1, 4) {
		case 1:
			c.handleCreateRoom()
		case 2:
			c.handleJoinRoom()
		case 3:
			c.handleRoomList()
		case 4:
			c.Close()
			return nil
		}
	}
}

func (c *Client) handleCreateRoom() {
	name := c.input.GetStringInput("Room name:", 1, 30)
	if err := c.sendMessage(network.NewCreateRoomMessage(name)); err != nil {
		c.display.PrintError(fmt.Sprintf("Send failed: %v", err))
		return
	}
	if _, err := c.waitLobbyReply(); err != nil {
		c.display.PrintError(err.Error())
		return
	}
	c.waitForMatch()
}

func (c *Client) handleJoinRoom() {
	roomID := c.input.GetStringInput("Room id:", 1, 16)
	if err := c.sendMessage(network.NewJoinRoomMessage(roomID)); err != nil {
		c.display.PrintError(fmt.Sprintf("Send failed: %v", err))
		return
	}
	if _, err := c.waitLobbyReply(); err != nil {
		c.display.PrintError(err.Error())
	}
}

func (c *Client) handleRoomList() {
	if err := c.sendMessage(network.NewGetRoomListMessage()); err != nil {
		c.display.PrintError(fmt.Sprintf("Send failed: %v", err))
		return
	}
	if _, err := c.waitLobbyReply(); err != nil {
		c.display.PrintError(err.Error())
	}
}

// waitForMatch blocks a room creator until the second player arrives
func (c *Client) waitForMatch() {
	if c.roomBound() == "" {
		return
	}
	c.display.PrintInfo("Waiting for an opponent...")
	for !c.isInGame() {
		select {
		case <-c.done:
			return
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// runMatchLoop reads match commands until the game ends
func (c *Client) runMatchLoop() {
	for c.isInGame() {
		cmd := c.input.GetLine("")
		if !c.isInGame() {
			return
		}

		c.mu.Lock()
		playerID := c.playerID
		c.mu.Unlock()

		var msg *network.ClientMessage
		switch cmd {
		case "left":
			msg = network.NewMoveMessage(playerID, game.DirectionLeft)
		case "right":
			msg = network.NewMoveMessage(playerID, game.DirectionRight)
		case "attack", "a":
			msg = network.NewAttackMessage(playerID)
		case "jump", "j":
			msg = network.NewJumpMessage(playerID)
		case "quit", "q":
			c.Close()
			return
		default:
			c.display.PrintWarning("Unknown command (left | right | attack | jump | quit)")
			continue
		}

		if err := c.sendMessage(msg); err != nil {
			c.display.PrintError(fmt.Sprintf("Send failed: %v", err))
			return
		}
	}
}

func (c *Client) waitLobbyReply() (*network.ServerMessage, error) {
	select {
	case msg := <-c.lobbyCh:
		return msg, nil
	case <-c.done:
		return nil, fmt.Errorf("connection closed")
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("timed out waiting for server reply")
	}
}

func (c *Client) isInGame() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inGame
}

func (c *Client) roomBound() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

// messageHandler reads server messages for the connection lifetime
func (c *Client) messageHandler() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)

	for scanner.Scan() {
		msg, err := network.DecodeServerMessage(scanner.Bytes())
		if err != nil {
			c.logger.Warn("Dropping undecodable server message: %v", err)
			continue
		}
		c.handleServerMessage(msg)
	}

	c.display.PrintServerStatus("Disconnected from server")
	c.Close()
}

func (c *Client) handleServerMessage(msg *network.ServerMessage) {
	switch msg.Type {
	case network.MsgSuccess:
		c.display.PrintServerStatus(msg.Message)
		c.pushLobbyReply(msg)

	case network.MsgError:
		c.display.PrintError(msg.Message)
		c.pushLobbyReply(msg)

	case network.MsgRoomCreated:
		c.mu.Lock()
		c.roomID = msg.RoomID
		c.playerID = msg.PlayerID
		c.mu.Unlock()
		c.display.PrintRoomEvent(fmt.Sprintf("Room created: %s", msg.RoomID), msg.RoomInfo)
		c.pushLobbyReply(msg)

	case network.MsgRoomJoined:
		c.mu.Lock()
		c.playerID = msg.PlayerID
		if msg.RoomInfo != nil {
			c.roomID = msg.RoomInfo.RoomID
		}
		c.mu.Unlock()
		c.display.PrintRoomEvent("Joined room", msg.RoomInfo)
		c.pushLobbyReply(msg)

	case network.MsgGameReady:
		c.mu.Lock()
		c.roomID = msg.RoomID
		c.playerID = msg.PlayerID
		c.inGame = true
		playerID := c.playerID
		c.mu.Unlock()
		c.display.PrintMatchStart(msg.RoomID, playerID)
		c.pushLobbyReply(msg)

	case network.MsgRoomList:
		c.display.PrintRoomList(msg.Rooms)
		c.pushLobbyReply(msg)

	case network.MsgGameState:
		c.handleGameState(msg.Data)

	case network.MsgGameOver:
		c.mu.Lock()
		playerID := c.playerID
		c.inGame = false
		c.roomID = ""
		c.lastHealth = make(map[int]int)
		c.mu.Unlock()
		c.display.PrintMatchResult(msg.Winner, playerID)
		c.display.PrintInfo("Press enter to return to the lobby")
	}
}

// handleGameState tracks snapshots; health changes are printed, everything
// else would flood a line-oriented terminal at 60 snapshots a second
func (c *Client) handleGameState(snap *game.Snapshot) {
	if snap == nil {
		return
	}

	c.mu.Lock()
	if !c.inGame && snap.GameStarted && !snap.GameOver {
		// The room creator learns about match start from the first
		// snapshot; joiners got game_ready.
		c.inGame = true
		roomID, playerID := c.roomID, c.playerID
		c.mu.Unlock()
		c.display.PrintMatchStart(roomID, playerID)
		c.mu.Lock()
	}

	var changes []game.PlayerState
	for id, p := range snap.Players {
		if last, ok := c.lastHealth[id]; !ok || last != p.Health {
			c.lastHealth[id] = p.Health
			if ok {
				changes = append(changes, p)
			}
		}
	}

	var countdown float64 = -1
	if rem := int(snap.RemainingTime); rem > 0 && rem%30 == 0 && rem != c.lastCountdown {
		c.lastCountdown = rem
		countdown = snap.RemainingTime
	}
	c.mu.Unlock()

	for _, p := range changes {
		c.display.PrintHealth(p.ID, p.Name, p.Health)
	}
	if countdown >= 0 {
		c.display.PrintCountdown(countdown)
	}
}

func (c *Client) pushLobbyReply(msg *network.ServerMessage) {
	select {
	case c.lobbyCh <- msg:
	default:
	}
}
