package main

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Lethinkj/chess-bot/pkg/engine"
	"github.com/Lethinkj/chess-bot/pkg/game"
)

var (
	flagVerbose bool
	flagLogFile string
)

var rootCmd = &cobra.Command{
	Use:   "chessarena",
	Short: "Play chess against Stockfish or the built-in engine",
	Long: heredoc.Doc(`
		chessarena runs chess games against an engine, from the terminal
		or over HTTP. It drives a Stockfish binary when one is installed
		and falls back to its own search when not.
	`),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if flagLogFile != "" {
			f, err := os.OpenFile(flagLogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			if err != nil {
				return err
			}
			logrus.SetOutput(f)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "append logs to this file instead of stderr")
}

// newMoveSource builds the engine backing for a game: Stockfish when a
// binary can be found, the built-in search otherwise. depth pins the
// fallback's search depth; 0 derives it from the difficulty. The returned
// closer is a no-op for the fallback.
func newMoveSource(stockfishPath string, difficulty, depth int) (game.MoveSource, engine.Analyzer, func()) {
	path := stockfishPath
	if path == "" {
		path = engine.FindStockfish()
	}
	if path != "" {
		sf, err := engine.NewStockfish(path, difficulty, engine.DefaultThinkTime)
		if err == nil {
			logrus.Debugf("using stockfish at %s", path)
			return sf, sf, sf.Close
		}
		logrus.Warnf("stockfish at %s failed to start: %v", path, err)
	}
	logrus.Warn("stockfish not available, using the built-in engine")
	fb := engine.NewFallback(depth)
	if depth == 0 {
		_ = fb.SetSkill(difficulty)
	}
	return fb, fb, func() {}
}
