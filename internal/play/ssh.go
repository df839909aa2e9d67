package play

import (
	"fmt"
	"io"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// SSHOptions configures the SSH front end.
type SSHOptions struct {
	Addr        string
	HostKeyFile string // empty: an ephemeral key is generated at start
	IdleTimeout time.Duration
	Session     Options
}

// NewSSHServer returns a server that runs one Session per connection. The
// SSH user name becomes the player handle.
func NewSSHServer(o SSHOptions) (*ssh.Server, error) {
	srv := &ssh.Server{
		Addr:        o.Addr,
		IdleTimeout: o.IdleTimeout,
		Handler:     sshHandler(o.Session),
	}
	if o.HostKeyFile != "" {
		if err := srv.SetOption(ssh.HostKeyFile(o.HostKeyFile)); err != nil {
			return nil, fmt.Errorf("load host key: %w", err)
		}
	}
	return srv, nil
}

func sshHandler(base Options) ssh.Handler {
	return func(sess ssh.Session) {
		_, _, isPty := sess.Pty()
		if !isPty {
			_, _ = io.WriteString(sess, "non-interactive terminals are not supported\n")
			_ = sess.Exit(1)
			return
		}

		opts := base
		opts.Player = sess.User()
		opts.Color = true
		opts.Prompt = ""

		t := term.NewTerminal(sess, "> ")
		logger := log.With().Str("remote", sess.RemoteAddr().String()).Str("player", opts.Player).Logger()
		logger.Info().Msg("ssh session started")

		s := NewSession(t, t, opts)
		if err := s.Run(sess.Context()); err != nil {
			logger.Warn().Err(err).Msg("ssh session ended with error")
			_ = sess.Exit(1)
			return
		}
		st := s.Game()
		logger.Info().Int("count", st.Count).Bool("complete", st.Complete).Msg("ssh session ended")
		_ = sess.Exit(0)
	}
}
