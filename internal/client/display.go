// Package client implements the terminal client: connection handling, lobby
// commands and a colored event display.
package client

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"arena-game/internal/game"
)

// Display renders server events to the terminal with per-event colors
type Display struct {
	serverColor  *color.Color
	connectColor *color.Color
	gameColor    *color.Color
	attackColor  *color.Color
	winColor     *color.Color
	loseColor    *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	errorColor   *color.Color
	roomColor    *color.Color
}

// NewDisplay creates a display with the configured color scheme
func NewDisplay() *Display {
	return &Display{
		serverColor:  color.New(color.FgCyan, color.Bold),
		connectColor: color.New(color.FgGreen, color.Bold),
		gameColor:    color.New(color.FgYellow, color.Bold),
		attackColor:  color.New(color.FgRed),
		winColor:     color.New(color.FgGreen, color.Bold),
		loseColor:    color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow),
		infoColor:    color.New(color.FgWhite),
		errorColor:   color.New(color.FgRed),
		roomColor:    color.New(color.FgMagenta),
	}
}

// PrintBanner displays the client banner
func (d *Display) PrintBanner() {
	banner := `
╔═══════════════════════════════════════╗
║           ARENA FIGHT CLIENT          ║
║        2-player versus matches        ║
╚═══════════════════════════════════════╝
`
	d.gameColor.Println(banner)
}

func (d *Display) timestamp() string {
	return time.Now().Format("15:04:05")
}

// PrintServerStatus displays server connection status
func (d *Display) PrintServerStatus(message string) {
	d.serverColor.Printf("[%s] [SERVER] %s\n", d.timestamp(), message)
}

// PrintInfo displays a neutral informational line
func (d *Display) PrintInfo(message string) {
	d.infoColor.Printf("[%s] %s\n", d.timestamp(), message)
}

// PrintError displays an error line
func (d *Display) PrintError(message string) {
	d.errorColor.Printf("[%s] [ERROR] %s\n", d.timestamp(), message)
}

// PrintWarning displays a warning line
func (d *Display) PrintWarning(message string) {
	d.warningColor.Printf("[%s] [WARN] %s\n", d.timestamp(), message)
}

// PrintConnected displays a successful connection
func (d *Display) PrintConnected(addr string) {
	d.connectColor.Printf("[%s] [CONNECTED] %s\n", d.timestamp(), addr)
}

// PrintRoomList displays the joinable room list
func (d *Display) PrintRoomList(rooms []game.RoomInfo) {
	if len(rooms) == 0 {
		d.PrintInfo("No joinable rooms. Create one!")
		return
	}
	d.roomColor.Printf("[%s] Joinable rooms:\n", d.timestamp())
	for _, room := range rooms {
		d.roomColor.Printf("  %s  %-20s  %d/%d  %s\n",
			room.RoomID, room.Name, room.Players, room.MaxPlayers, room.Status)
	}
}

// PrintRoomEvent displays a lobby event for a room
func (d *Display) PrintRoomEvent(message string, info *game.RoomInfo) {
	d.roomColor.Printf("[%s] %s\n", d.timestamp(), message)
	if info != nil {
		for _, p := range info.PlayerList {
			d.roomColor.Printf("  - %s (%s)\n", p.Name, p.Character)
		}
	}
}

// PrintMatchStart announces a starting match
func (d *Display) PrintMatchStart(roomID string, playerID int) {
	d.gameColor.Printf("[%s] Match starting in room %s, you are player %d\n",
		d.timestamp(), roomID, playerID)
	d.PrintInfo("Commands: left | right | attack | jump | quit")
}

// PrintHealth displays a health change
func (d *Display) PrintHealth(playerID int, name string, health int) {
	d.attackColor.Printf("[%s] %s (player %d) health: %d\n", d.timestamp(), name, playerID, health)
}

// PrintCountdown displays the remaining match time
func (d *Display) PrintCountdown(remaining float64) {
	d.infoColor.Printf("[%s] Time remaining: %s\n",
		d.timestamp(), fmt.Sprintf("%d:%02d", int(remaining)/60, int(remaining)%60))
}

// PrintMatchResult announces the outcome for the local player
func (d *Display) PrintMatchResult(winner *int, myPlayerID int) {
	switch {
	case winner == nil:
		d.warningColor.Printf("[%s] Match over: draw\n", d.timestamp())
	case *winner == myPlayerID:
		d.winColor.Printf("[%s] VICTORY! You won the match!\n", d.timestamp())
	default:
		d.loseColor.Printf("[%s] Defeat. Player %d won the match.\n", d.timestamp(), *winner)
	}
}
