package main

import (
	"fmt"

	"github.com/beka-birhanu/torchmaze/game"
	"github.com/beka-birhanu/torchmaze/game/maze"
	"github.com/gdamore/tcell/v2"
)

const (
	runePlayer  = '@'
	runeMonster = 'M'
	runeExit    = 'E'
	runeFog     = '░'
	runeVisited = '.'
	runeCorner  = '+'
	runeHWall   = '-'
	runeVWall   = '|'
)

var (
	styleDefault = tcell.StyleDefault
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFog     = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleMonster = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleExit    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// cellOrigin maps a grid cell to the screen position of its center.
func cellOrigin(p maze.Position) (int, int) {
	return 2*p.X + 1, 2*p.Y + 1
}

// draw renders a snapshot: walls and fog first, then footprints, the exit, the monster and the player.
func draw(screen tcell.Screen, snap game.Snapshot) {
	screen.Clear()

	for y, row := range snap.Cells {
		for x, cell := range row {
			drawCell(screen, maze.Position{X: x, Y: y}, cell)
		}
	}

	for _, p := range snap.Visited {
		put(screen, p, runeVisited, styleDefault)
	}
	put(screen, snap.Exit, runeExit, styleExit)
	put(screen, snap.Monster, runeMonster, styleMonster)
	put(screen, snap.Player, runePlayer, stylePlayer)

	drawText(screen, 0, 2*snap.Size+1, styleStatus, statusLine(snap))
	screen.Show()
}

func drawCell(screen tcell.Screen, p maze.Position, cell maze.Cell) {
	cx, cy := cellOrigin(p)
	if cell.Fog {
		screen.SetContent(cx, cy, runeFog, nil, styleFog)
		return
	}

	screen.SetContent(cx-1, cy-1, runeCorner, nil, styleWall)
	screen.SetContent(cx+1, cy-1, runeCorner, nil, styleWall)
	screen.SetContent(cx-1, cy+1, runeCorner, nil, styleWall)
	screen.SetContent(cx+1, cy+1, runeCorner, nil, styleWall)
	if cell.NorthWall {
		screen.SetContent(cx, cy-1, runeHWall, nil, styleWall)
	}
	if cell.SouthWall {
		screen.SetContent(cx, cy+1, runeHWall, nil, styleWall)
	}
	if cell.WestWall {
		screen.SetContent(cx-1, cy, runeVWall, nil, styleWall)
	}
	if cell.EastWall {
		screen.SetContent(cx+1, cy, runeVWall, nil, styleWall)
	}
}

func put(screen tcell.Screen, p maze.Position, r rune, style tcell.Style) {
	x, y := cellOrigin(p)
	screen.SetContent(x, y, r, nil, style)
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func statusLine(snap game.Snapshot) string {
	switch snap.Status {
	case game.StatusCaught:
		return fmt.Sprintf("Stage %d  Caught!  r: restart  q: quit", snap.Stage)
	default:
		return fmt.Sprintf("Stage %d  Torch %d  arrows/hjkl: move  q: quit", snap.Stage, snap.Torch)
	}
}
