// Package gui is the terminal board UI: click (or arrow-select) a piece and
// a destination square, the engine answers in the background.
package gui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"github.com/Lethinkj/chess-bot/pkg/game"
)

const (
	numrows = 8
	numcols = 8
)

// UI owns the widgets and the session they render.
type UI struct {
	app     *tview.Application
	board   *tview.Table
	status  *tview.TextView
	history *tview.TextView
	layout  *tview.Grid

	clock     *Clock
	clockView *tview.TextView

	session     *game.Session
	playerColor chess.Color
	flipped     bool

	selecting     bool
	lastSelection chess.Square
	highlights    map[chess.Square]bool
}

// New builds the UI around a session. The engine plays the other color.
func New(sess *game.Session, playerColor chess.Color) *UI {
	ui := &UI{
		app:         tview.NewApplication(),
		board:       tview.NewTable(),
		session:     sess,
		playerColor: playerColor,
		flipped:     playerColor == chess.Black,
		highlights:  make(map[chess.Square]bool),
	}

	ui.status = tview.NewTextView().SetDynamicColors(true)
	ui.history = tview.NewTextView()
	ui.history.SetBorder(true)
	ui.history.SetTitle(" Moves ")

	hintBtn := tview.NewButton("Hint").SetSelectedFunc(ui.requestHint)
	newBtn := tview.NewButton("New Game").SetSelectedFunc(ui.newGame)
	flipBtn := tview.NewButton("Flip").SetSelectedFunc(func() {
		ui.flipped = !ui.flipped
		ui.render()
	})
	quitBtn := tview.NewButton("Quit").SetSelectedFunc(func() {
		if ui.clock != nil {
			ui.clock.Stop()
		}
		ui.app.Stop()
	})

	sidebar := tview.NewGrid().
		SetColumns(11, 11).
		SetRows(3, 3, 3, -1).
		AddItem(hintBtn, 0, 0, 1, 1, 0, 0, false).
		AddItem(newBtn, 0, 1, 1, 1, 0, 0, false).
		AddItem(flipBtn, 1, 0, 1, 1, 0, 0, false).
		AddItem(quitBtn, 1, 1, 1, 1, 0, 0, false).
		AddItem(ui.history, 3, 0, 1, 2, 0, 0, false)

	if tl := sess.State().TimeLimit; tl > 0 {
		ui.clock = NewClock(time.Duration(tl) * time.Minute)
		ui.clockView = tview.NewTextView().SetTextAlign(tview.AlignCenter)
		ui.clockView.SetBorder(true)
		ui.clockView.SetTitle(" Clock ")
		ui.clockView.SetText(ui.clock.String())
		sidebar.AddItem(ui.clockView, 2, 0, 1, 2, 0, 0, false)
		ui.clock.Start(func() {
			ui.app.QueueUpdateDraw(func() {
				ui.clockView.SetText(ui.clock.String())
			})
		})
		ui.clock.Resume()
	}

	ui.layout = tview.NewGrid().
		SetRows(-1, 20, 3, -1).
		SetColumns(-1, 30, 24, -1).
		AddItem(ui.board, 1, 1, 1, 1, 0, 0, true).
		AddItem(sidebar, 1, 2, 1, 1, 0, 0, false).
		AddItem(ui.status, 2, 1, 1, 2, 0, 0, false)

	ui.initBoard()
	ui.render()
	if playerColor == chess.Black {
		ui.engineReply()
	} else {
		ui.setStatus("Your move.")
	}
	return ui
}

// Run blocks until the UI exits.
func (ui *UI) Run() error {
	return ui.app.SetRoot(ui.layout, true).EnableMouse(true).Run()
}

func (ui *UI) initBoard() {
	ui.board.SetSelectable(true, true)
	ui.board.Select(0, 1).SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			ui.app.Stop()
		}
	}).SetSelectedFunc(ui.onSquareSelected)
}

func (ui *UI) onSquareSelected(row, col int) {
	if col == 0 || row == numrows {
		return // rank/file labels
	}
	sq := ui.posToSquare(row, col)

	if !ui.selecting {
		ui.highlights[sq] = true
		ui.selecting = true
		ui.lastSelection = sq
		ui.render()
		return
	}

	if sq == ui.lastSelection { // deselect
		delete(ui.highlights, sq)
		ui.selecting = false
		ui.render()
		return
	}

	move := fmt.Sprintf("%s%s", ui.lastSelection.String(), sq.String())
	move += ui.promotionSuffix(ui.lastSelection, sq)
	delete(ui.highlights, ui.lastSelection)
	ui.selecting = false

	st, err := ui.session.ApplyMove(move)
	if err != nil {
		ui.setStatus(fmt.Sprintf("[red]%s[-]", rejectionText(err)))
		ui.render()
		return
	}
	ui.render()
	if st.GameOver {
		ui.setStatus(resultText(st))
		return
	}
	ui.engineReply()
}

// promotionSuffix auto-queens; under-promotion needs the CLI.
func (ui *UI) promotionSuffix(from, to chess.Square) string {
	p := ui.session.Position().Board().Piece(from)
	if p.Type() != chess.Pawn {
		return ""
	}
	if to.Rank() == chess.Rank8 || to.Rank() == chess.Rank1 {
		return "q"
	}
	return ""
}

// engineReply computes the engine move off the UI goroutine. The session's
// busy flag rejects any player input that lands while it runs.
func (ui *UI) engineReply() {
	ui.setStatus("Engine is thinking...")
	if ui.clock != nil {
		ui.clock.Pause()
	}
	go func() {
		st, err := ui.session.EngineMove()
		ui.app.QueueUpdateDraw(func() {
			if ui.clock != nil {
				ui.clock.Resume()
			}
			ui.render()
			switch {
			case err != nil:
				ui.setStatus(fmt.Sprintf("[red]%s[-]", rejectionText(err)))
			case st.GameOver:
				ui.setStatus(resultText(st))
			default:
				ui.setStatus(fmt.Sprintf("Engine plays %s. Your move.", st.LastMove))
			}
		})
	}()
}

func (ui *UI) requestHint() {
	go func() {
		hint, err := ui.session.Hint()
		ui.app.QueueUpdateDraw(func() {
			if err != nil {
				ui.setStatus(fmt.Sprintf("[red]%s[-]", rejectionText(err)))
				return
			}
			st := ui.session.State()
			ui.setStatus(fmt.Sprintf("Hint: %s (%d/%d used)", hint, st.HintsUsed, st.MaxHints))
		})
	}()
}

func (ui *UI) newGame() {
	ui.session.Reset()
	ui.selecting = false
	ui.highlights = make(map[chess.Square]bool)
	ui.render()
	if ui.playerColor == chess.Black {
		ui.engineReply()
	} else {
		ui.setStatus("Your move.")
	}
}

func (ui *UI) render() {
	board := ui.session.Position().Board()
	for r := 0; r <= numrows; r++ {
		for f := 0; f <= numcols; f++ {
			switch {
			case f == 0 && r != numrows: // rank label
				rank := chess.Rank(numrows - r - 1)
				if ui.flipped {
					rank = chess.Rank(r)
				}
				cell := tview.NewTableCell(rank.String()).
					SetAlign(tview.AlignCenter).
					SetSelectable(false)
				ui.board.SetCell(r, f, cell)

			case r == numrows && f > 0: // file label
				file := chess.File(f - 1)
				if ui.flipped {
					file = chess.File(numcols - f)
				}
				cell := tview.NewTableCell(" " + file.String()).
					SetAlign(tview.AlignCenter).
					SetSelectable(false)
				ui.board.SetCell(r, f, cell)

			case r == numrows && f == 0:
				// bottom-left corner is unused

			default:
				sq := ui.posToSquare(r, f)
				p := board.Piece(sq)
				label := " "
				if p != chess.NoPiece {
					label = " " + p.String()
				}
				cell := tview.NewTableCell(label).
					SetAlign(tview.AlignCenter).
					SetBackgroundColor(ui.squareColor(sq))
				ui.board.SetCell(r, f, cell)
			}
		}
	}
	ui.renderHistory()
}

func (ui *UI) renderHistory() {
	moves := ui.session.State().PGN
	// Strip the in-progress result marker for a cleaner move list.
	moves = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(moves), "*"))
	ui.history.SetText(moves)
}

func (ui *UI) squareColor(sq chess.Square) tcell.Color {
	if ui.highlights[sq] {
		return tcell.ColorRed
	}
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return tcell.ColorBlue
	}
	return tcell.ColorGreen
}

func (ui *UI) setStatus(text string) {
	ui.status.SetText(text)
}

// posToSquare maps a table cell to a board square; A1 is square 0. White's
// view descends rank by row, the flipped view ascends.
func (ui *UI) posToSquare(row, col int) chess.Square {
	file := col - 1
	if !ui.flipped {
		row = numrows - row - 1
	} else {
		file = numcols - col
	}
	return chess.Square(row*8 + file)
}

func rejectionText(err error) string {
	return strings.TrimPrefix(err.Error(), "game: ")
}

func resultText(st game.State) string {
	switch st.Winner {
	case game.WinnerWhite, game.WinnerBlack:
		return fmt.Sprintf("[yellow]%s! %s wins![-]", st.Reason, st.Winner)
	case game.WinnerDraw:
		return fmt.Sprintf("[yellow]%s - draw.[-]", st.Reason)
	default:
		return "Game over."
	}
}
