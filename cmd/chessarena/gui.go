package main

import (
	"github.com/notnil/chess"
	"github.com/spf13/cobra"

	"github.com/Lethinkj/chess-bot/pkg/game"
	"github.com/Lethinkj/chess-bot/pkg/gui"
)

var (
	flagGUIDifficulty int
	flagGUIDepth      int
	flagGUIBlack      bool
	flagGUIStockfish  string
	flagGUITimeLimit  int
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Play on a clickable terminal board",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _, closeSource := newMoveSource(flagGUIStockfish, flagGUIDifficulty, flagGUIDepth)
		defer closeSource()

		sess := game.NewSession("local", flagGUIDifficulty, flagGUITimeLimit, source)
		color := chess.White
		if flagGUIBlack {
			color = chess.Black
		}
		ui := gui.New(sess, color)
		return ui.Run()
	},
}

func init() {
	guiCmd.Flags().IntVar(&flagGUIDifficulty, "difficulty", game.DefaultDifficulty, "engine skill level, 0-20")
	guiCmd.Flags().IntVar(&flagGUIDepth, "depth", 0, "built-in search depth, 0 derives it from difficulty")
	guiCmd.Flags().BoolVar(&flagGUIBlack, "black", false, "play as Black")
	guiCmd.Flags().StringVar(&flagGUIStockfish, "stockfish", "", "path to a stockfish binary (auto-detected when empty)")
	guiCmd.Flags().IntVar(&flagGUITimeLimit, "time-limit", 0, "display clock in minutes, 0 for untimed")
	rootCmd.AddCommand(guiCmd)
}
