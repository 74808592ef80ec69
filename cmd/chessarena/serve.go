package main

import (
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Lethinkj/chess-bot/pkg/game"
	"github.com/Lethinkj/chess-bot/pkg/server"
)

var (
	flagAddr       string
	flagSSHAddr    string
	flagGUIBinary  string
	flagStockfish  string
	flagDifficulty int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game API server",
	Long: heredoc.Doc(`
		Serve the session API over HTTP. Each game created through the
		API gets its own session; a websocket endpoint streams state
		changes to watchers.

		With --ssh-addr, an SSH server is started alongside that drops
		connecting clients into the terminal UI.
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		source, analyzer, closeSource := newMoveSource(flagStockfish, flagDifficulty, 0)
		defer closeSource()

		registry := game.NewRegistry()
		srv := server.New(server.Config{
			Addr:       flagAddr,
			Difficulty: flagDifficulty,
			NewSource: func(difficulty int) game.MoveSource {
				if ss, ok := source.(game.SkillSetter); ok {
					_ = ss.SetSkill(difficulty)
				}
				return source
			},
			Analyzer: analyzer,
		}, registry)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logrus.Infof("listening on %s", flagAddr)
			return srv.ListenAndServe(ctx)
		})
		if flagSSHAddr != "" {
			sshSrv := server.NewSSHServer(flagSSHAddr, flagGUIBinary)
			g.Go(func() error {
				logrus.Infof("ssh listening on %s", flagSSHAddr)
				return sshSrv.ListenAndServe(ctx)
			})
		}
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":5000", "HTTP listen address")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh-addr", "", "SSH listen address (disabled when empty)")
	serveCmd.Flags().StringVar(&flagGUIBinary, "gui-binary", "chessarena", "binary SSH clients are dropped into")
	serveCmd.Flags().StringVar(&flagStockfish, "stockfish", "", "path to a stockfish binary (auto-detected when empty)")
	serveCmd.Flags().IntVar(&flagDifficulty, "difficulty", game.DefaultDifficulty, "engine skill level, 0-20")
	rootCmd.AddCommand(serveCmd)
}
