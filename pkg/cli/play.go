// Package cli runs an interactive chess session in the terminal: the player
// types moves and commands, the engine answers on the same prompt.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/Lethinkj/chess-bot/pkg/engine"
	"github.com/Lethinkj/chess-bot/pkg/game"
)

// Options configures a terminal session.
type Options struct {
	Difficulty  int
	PlayerWhite bool
	Source      game.MoveSource
	Analyzer    engine.Analyzer
}

// Run drives the read-eval loop until the player quits or input ends.
func Run(opts Options) error {
	sess := game.NewSession("local", opts.Difficulty, 0, opts.Source)

	printBanner()
	printHelp()
	printBoard(sess)

	if !opts.PlayerWhite {
		fmt.Println("\nEngine is playing as White...")
		engineReply(sess)
		printBoard(sess)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		st := sess.State()
		if st.GameOver {
			color.Yellow("\n%s", resultLine(st))
			fmt.Println("Game over! Type 'reset' to play again or 'quit' to exit.")
		}

		color.New(color.FgCyan).Printf("\nYour move: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return scanner.Err()
		}
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}

		switch lower := strings.ToLower(cmd); {
		case lower == "quit" || lower == "exit":
			fmt.Println("Thanks for playing!")
			return nil

		case lower == "reset":
			sess.Reset()
			printBoard(sess)

		case lower == "hint":
			hint, err := sess.Hint()
			if err != nil {
				printRejection(err)
				continue
			}
			st := sess.State()
			fmt.Printf("Hint: consider playing %s (%d/%d hints used)\n", hint, st.HintsUsed, st.MaxHints)

		case lower == "help":
			printHelp()

		case lower == "eval":
			printAnalysis(sess, opts.Analyzer)

		case lower == "undo":
			// Take back the engine's reply and the player's move.
			if _, err := sess.Undo(2); err != nil {
				printRejection(err)
				continue
			}
			printBoard(sess)

		case strings.HasPrefix(lower, "level"):
			parts := strings.Fields(lower)
			if len(parts) != 2 {
				fmt.Printf("Current level: %d/20\n", sess.State().Difficulty)
				continue
			}
			level, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Println("Usage: level [0-20]")
				continue
			}
			fmt.Printf("Difficulty set to %d/20\n", sess.SetDifficulty(level))

		case lower == "moves":
			moves := sess.State().LegalMoves
			fmt.Printf("Legal moves (%d): %s\n", len(moves), strings.Join(moves, ", "))

		case lower == "pgn":
			fmt.Println("\n" + sess.PGN())

		default:
			if _, err := sess.ApplyMove(cmd); err != nil {
				printRejection(err)
				continue
			}
			printBoard(sess)
			if !sess.State().GameOver {
				engineReply(sess)
				printBoard(sess)
			}
		}
	}
}

func engineReply(sess *game.Session) {
	stop := startSpinner(" engine is thinking...")
	st, err := sess.EngineMove()
	stop()
	if err != nil {
		printRejection(err)
		return
	}
	fmt.Printf("Engine plays: %s\n", st.LastMove)
}

// startSpinner shows a spinner while the engine thinks, unless output is
// piped somewhere.
func startSpinner(suffix string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = suffix
	sp.Start()
	return sp.Stop
}

func printBanner() {
	color.New(color.FgGreen, color.Bold).Println(strings.Repeat("=", 50))
	color.New(color.FgGreen, color.Bold).Println("    CHESS ARENA - terminal session")
	color.New(color.FgGreen, color.Bold).Println(strings.Repeat("=", 50))
}

func printHelp() {
	fmt.Println("\nCommands:")
	fmt.Println("  [move]  - Make a move (e.g. 'e2e4', 'Nf3')")
	fmt.Println("  hint    - Get a move suggestion (5 per game)")
	fmt.Println("  eval    - Analyze the current position")
	fmt.Println("  undo    - Take back your last move and the engine's reply")
	fmt.Println("  level N - Set difficulty (0-20, 20 = hardest)")
	fmt.Println("  moves   - Show all legal moves")
	fmt.Println("  pgn     - Export the game record")
	fmt.Println("  reset   - Start a new game")
	fmt.Println("  help    - Show this message")
	fmt.Println("  quit    - Exit")
}

func printBoard(sess *game.Session) {
	st := sess.State()
	fmt.Println("\n" + strings.Repeat("=", 40))
	fmt.Print(sess.Position().Board().Draw())
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Turn: %s\n", st.Turn)
	fmt.Printf("FEN: %s\n", st.FEN)
	if st.InCheck {
		color.Red("CHECK!")
	}
}

func printAnalysis(sess *game.Session, analyzer engine.Analyzer) {
	if analyzer == nil {
		fmt.Println("No analyzer available.")
		return
	}
	stop := startSpinner(" analyzing...")
	analysis, err := analyzer.Analyze(sess.Position(), 3)
	stop()
	if err != nil {
		printRejection(err)
		return
	}

	fmt.Println("\n=== Position Analysis ===")
	if analysis.Score.Mate != 0 {
		fmt.Printf("Mate in %d!\n", analysis.Score.Mate)
	} else {
		pawns := float64(analysis.Score.CP) / 100
		fmt.Printf("Evaluation: %+.2f pawns\n", pawns)
		switch {
		case pawns > 2:
			fmt.Println("White is winning")
		case pawns > 0.5:
			fmt.Println("White has an advantage")
		case pawns < -2:
			fmt.Println("Black is winning")
		case pawns < -0.5:
			fmt.Println("Black has an advantage")
		default:
			fmt.Println("Position is roughly equal")
		}
	}
	if len(analysis.TopMoves) > 0 {
		fmt.Println("\nBest moves:")
		for i, m := range analysis.TopMoves {
			if m.Mate != 0 {
				fmt.Printf("  %d. %s (mate in %d)\n", i+1, m.Move, m.Mate)
			} else {
				fmt.Printf("  %d. %s (%+.2f)\n", i+1, m.Move, float64(m.CP)/100)
			}
		}
	}
}

func printRejection(err error) {
	var moveErr *game.MoveError
	var hintErr *game.HintError
	switch {
	case errors.As(err, &moveErr):
		if moveErr.Kind == game.InvalidFormat {
			color.Red("Could not read %q - moves look like 'e2e4' or 'Nf3'.", moveErr.Move)
		} else {
			color.Red("Illegal move: %s", moveErr.Move)
		}
	case errors.As(err, &hintErr):
		color.Red("No hints remaining (used %d/%d).", hintErr.Used, hintErr.Max)
	case errors.Is(err, game.ErrGameOver):
		color.Red("The game is over. Type 'reset' to start a new one.")
	case errors.Is(err, game.ErrEngineBusy):
		color.Red("The engine is still thinking.")
	default:
		color.Red("%v", err)
	}
}

func resultLine(st game.State) string {
	switch st.Winner {
	case game.WinnerWhite, game.WinnerBlack:
		return fmt.Sprintf("%s! %s wins!", st.Reason, st.Winner)
	case game.WinnerDraw:
		return fmt.Sprintf("%s - Draw!", st.Reason)
	default:
		return "Game over"
	}
}
