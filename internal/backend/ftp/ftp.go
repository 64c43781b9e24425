// Package ftp implements a [backend.Backend] over a single FTP control
// connection.
//
// The control channel cannot interleave commands, so a [Handler] must only be
// used by one goroutine at a time. Directory-ness is determined by changing
// into the candidate path and back again, which requires no listing format
// support from the server.
package ftp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/desertwitch/treesift/internal/backend"
	goftp "github.com/jlaffaye/ftp"
)

const (
	// DefaultPort is the FTP control port used when none is configured.
	DefaultPort = 21

	// DefaultTimeout is the dial timeout used when none is configured.
	DefaultTimeout = 90 * time.Second

	anonymousUser = "anonymous"
)

type conn interface {
	NameList(path string) ([]string, error)
	CurrentDir() (string, error)
	ChangeDir(path string) error
	FileSize(path string) (int64, error)
	GetTime(path string) (time.Time, error)
	Quit() error
}

// Config holds the connection settings of an FTP [Handler].
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Timeout  time.Duration

	// TLS enables explicit TLS (AUTH TLS) on the control connection.
	TLS                bool
	InsecureSkipVerify bool
	DisableEPSV        bool
}

// Addr returns the host:port address of the server.
func (c Config) Addr() string {
	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}

	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// Handler is the FTP [backend.Backend]. It is not safe for concurrent use.
type Handler struct {
	conn conn
	addr string
}

var _ backend.Backend = (*Handler)(nil)

// Dial connects and logs in to an FTP server. Without a user the login is
// anonymous.
func Dial(ctx context.Context, cfg Config) (*Handler, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []goftp.DialOption{
		goftp.DialWithContext(ctx),
		goftp.DialWithTimeout(timeout),
		goftp.DialWithDisabledEPSV(cfg.DisableEPSV),
	}
	if cfg.TLS {
		opts = append(opts, goftp.DialWithExplicitTLS(&tls.Config{
			ServerName:         cfg.Host,
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
			MinVersion:         tls.VersionTLS12,
		}))
	}

	addr := cfg.Addr()

	c, err := goftp.Dial(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("(ftp) failed to dial %s: %w", addr, err)
	}

	user, password := cfg.User, cfg.Password
	if user == "" {
		user, password = anonymousUser, anonymousUser
	}

	if err := c.Login(user, password); err != nil {
		_ = c.Quit()

		return nil, fmt.Errorf("(ftp) failed to login to %s as %s: %w", addr, user, err)
	}

	slog.Debug("Connected to FTP server.",
		"addr", addr,
		"user", user,
		"tls", cfg.TLS,
	)

	return NewHandler(c, addr), nil
}

// NewHandler returns a pointer to a new [Handler] over an established and
// logged in connection.
func NewHandler(c conn, addr string) *Handler {
	return &Handler{
		conn: c,
		addr: addr,
	}
}

// List returns the names of the entries of a directory (NLST). Servers that
// answer with full paths are normalized to base names.
func (h *Handler) List(ctx context.Context, dir string) ([]string, error) {
	if err := h.ready(ctx); err != nil {
		return nil, err
	}

	entries, err := h.conn.NameList(dir)
	if err != nil {
		return nil, fmt.Errorf("(ftp-list) %w: %s: %w", backend.ErrDirectoryUnavailable, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimRight(e, "/")
		if e == "" {
			continue
		}
		names = append(names, path.Base(e))
	}

	return names, nil
}

// IsDir reports whether p is a directory by changing into it. The previous
// working directory is restored afterwards. A refused change means a file.
func (h *Handler) IsDir(ctx context.Context, p string) (bool, error) {
	if err := h.ready(ctx); err != nil {
		return false, err
	}

	current, err := h.conn.CurrentDir()
	if err != nil {
		return false, fmt.Errorf("(ftp-isdir) failed to pwd: %w", err)
	}

	if err := h.conn.ChangeDir(p); err != nil {
		return false, nil //nolint:nilerr
	}

	if err := h.conn.ChangeDir(current); err != nil {
		return true, fmt.Errorf("(ftp-isdir) failed to restore %s: %w", current, err)
	}

	return true, nil
}

// Metadata returns size (SIZE) and modification time (MDTM) of a file.
func (h *Handler) Metadata(ctx context.Context, p string) (backend.Metadata, error) {
	if err := h.ready(ctx); err != nil {
		return backend.Metadata{}, err
	}

	size, err := h.conn.FileSize(p)
	if err != nil {
		return backend.Metadata{}, fmt.Errorf("(ftp-metadata) failed to size: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return backend.Metadata{}, err
	}

	mtime, err := h.conn.GetTime(p)
	if err != nil {
		return backend.Metadata{}, fmt.Errorf("(ftp-metadata) failed to mdtm: %w", err)
	}

	return backend.Metadata{
		Size:       size,
		ModifiedAt: mtime.Unix(),
	}, nil
}

// Join joins dir and name with "/".
func (h *Handler) Join(dir, name string) string {
	return path.Join(dir, name)
}

// Close ends the session (QUIT). Further calls fail with
// [backend.ErrNotConnected].
func (h *Handler) Close() error {
	if h.conn == nil {
		return nil
	}

	c := h.conn
	h.conn = nil

	if err := c.Quit(); err != nil {
		return fmt.Errorf("(ftp) failed to quit %s: %w", h.addr, err)
	}

	return nil
}

func (h *Handler) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.conn == nil {
		return backend.ErrNotConnected
	}

	return nil
}
