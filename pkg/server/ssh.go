package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
	"unsafe"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"
)

const sshIdleTimeout = 5 * time.Minute

// SSHServer serves the terminal GUI over ssh: each connection gets the gui
// binary running on its own pty.
type SSHServer struct {
	srv       *ssh.Server
	guiBinary string
}

// NewSSHServer builds the server. guiBinary is the executable spawned per
// session (normally this binary itself, with the gui subcommand).
func NewSSHServer(addr, guiBinary string) *SSHServer {
	s := &SSHServer{guiBinary: guiBinary}
	s.srv = &ssh.Server{
		Addr:        addr,
		IdleTimeout: sshIdleTimeout,
		Handler:     s.handle,
	}
	if home, err := os.UserHomeDir(); err == nil {
		keyPath := filepath.Join(home, ".ssh", "id_rsa")
		if err := s.srv.SetOption(ssh.HostKeyFile(keyPath)); err != nil {
			logrus.Warnf("ssh: host key %s unavailable, using a generated key: %v", keyPath, err)
		}
	}
	return s
}

func (s *SSHServer) handle(sess ssh.Session) {
	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		io.WriteString(sess, "non-interactive terminals are not supported\n")
		sess.Exit(1)
		return
	}

	cmdCtx, cancel := context.WithCancel(sess.Context())
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, s.guiBinary, "gui")
	cmd.Env = append(sess.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.Start(cmd)
	if err != nil {
		io.WriteString(sess, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
		sess.Exit(1)
		return
	}
	defer f.Close()

	go func() {
		for win := range winCh {
			setWinsize(f, win.Width, win.Height)
		}
	}()
	go func() {
		io.Copy(f, sess)
	}()
	io.Copy(sess, f)

	f.Close()
	cmd.Wait()
}

// ListenAndServe runs the ssh server until ctx is canceled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		logrus.Infof("ssh: listening on %s", s.srv.Addr)
		errc <- s.srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return s.srv.Close()
	}
}

func setWinsize(f *os.File, w, h int) {
	syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uintptr(syscall.TIOCSWINSZ),
		uintptr(unsafe.Pointer(&struct{ h, w, x, y uint16 }{uint16(h), uint16(w), 0, 0})))
}
