package main

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Lethinkj/chess-bot/pkg/cli"
	"github.com/Lethinkj/chess-bot/pkg/game"
)

var (
	flagPlayDifficulty int
	flagPlayDepth      int
	flagPlayBlack      bool
	flagPlayStockfish  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long: heredoc.Doc(`
		Start a game at the prompt. Type moves in coordinate notation
		(e2e4) or standard notation (Nf3); 'help' lists the commands.
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, analyzer, closeSource := newMoveSource(flagPlayStockfish, flagPlayDifficulty, flagPlayDepth)
		defer closeSource()

		return cli.Run(cli.Options{
			Difficulty:  flagPlayDifficulty,
			PlayerWhite: !flagPlayBlack,
			Source:      source,
			Analyzer:    analyzer,
		})
	},
}

func init() {
	playCmd.Flags().IntVar(&flagPlayDifficulty, "difficulty", game.DefaultDifficulty, "engine skill level, 0-20")
	playCmd.Flags().IntVar(&flagPlayDepth, "depth", 0, "built-in search depth, 0 derives it from difficulty")
	playCmd.Flags().BoolVar(&flagPlayBlack, "black", false, "play as Black")
	playCmd.Flags().StringVar(&flagPlayStockfish, "stockfish", "", "path to a stockfish binary (auto-detected when empty)")
	rootCmd.AddCommand(playCmd)
}
