package main

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertwitch/treesift/internal/backend"
	"github.com/desertwitch/treesift/internal/backend/ftp"
	"github.com/desertwitch/treesift/internal/backend/local"
	"github.com/desertwitch/treesift/internal/backend/objectstore"
	"github.com/desertwitch/treesift/internal/configuration"
)

const (
	schemeFile = "file"
	schemeFTP  = "ftp"
	schemeFTPS = "ftps"
	schemeS3   = "s3"
)

// Target is a parsed search target: a local path or a remote URL.
type Target struct {
	Scheme   string
	Host     string
	Port     int
	User     string
	Password string
	Path     string
}

// ParseTarget parses a local path or an ftp://, ftps:// or s3:// URL. The
// path of a remote target is always absolute.
func ParseTarget(raw string) (Target, error) {
	if raw == "" {
		return Target{}, fmt.Errorf("(target) %w", ErrEmptyTarget)
	}

	if !strings.Contains(raw, "://") {
		return Target{Scheme: schemeFile, Path: filepath.Clean(raw)}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("(target) failed to parse %q: %w", raw, err)
	}

	t := Target{
		Scheme: strings.ToLower(u.Scheme),
		Host:   u.Hostname(),
		Path:   path.Clean("/" + u.Path),
	}

	switch t.Scheme {
	case schemeFile:
		t.Host = ""
		t.Path = filepath.Clean(u.Path)

		return t, nil

	case schemeFTP, schemeFTPS:
		if t.Host == "" {
			return Target{}, fmt.Errorf("(target) %w: %q", ErrMissingHost, raw)
		}
		if p := u.Port(); p != "" {
			port, err := strconv.Atoi(p)
			if err != nil {
				return Target{}, fmt.Errorf("(target) invalid port %q: %w", p, err)
			}
			t.Port = port
		}
		if u.User != nil {
			t.User = u.User.Username()
			t.Password, _ = u.User.Password()
		}

		return t, nil

	case schemeS3:
		if t.Host == "" {
			return Target{}, fmt.Errorf("(target) %w: %q", ErrMissingBucket, raw)
		}

		return t, nil

	default:
		return Target{}, fmt.Errorf("(target) %w: %q", ErrUnsupportedScheme, t.Scheme)
	}
}

// String returns the target without its password.
func (t Target) String() string {
	switch t.Scheme {
	case schemeFile:
		return t.Path
	case schemeS3:
		return "s3://" + t.Host + t.Path
	}

	u := url.URL{Scheme: t.Scheme, Host: t.Host, Path: t.Path}
	if t.Port > 0 {
		u.Host = fmt.Sprintf("%s:%d", t.Host, t.Port)
	}
	if t.User != "" {
		u.User = url.User(t.User)
	}

	return u.String()
}

// Open connects the backend of the target. Credentials of an FTP URL take
// precedence over the settings.
func (t Target) Open(ctx context.Context, settings *configuration.Settings) (backend.Backend, error) {
	switch t.Scheme {
	case schemeFile:
		return local.New(), nil

	case schemeFTP, schemeFTPS:
		h, err := ftp.Dial(ctx, t.ftpConfig(settings))
		if err != nil {
			return nil, fmt.Errorf("(target) failed to connect %s: %w", t, err)
		}

		return h, nil

	case schemeS3:
		h, err := objectstore.New(ctx, t.objectstoreConfig(settings))
		if err != nil {
			return nil, fmt.Errorf("(target) failed to open %s: %w", t, err)
		}

		return h, nil

	default:
		return nil, fmt.Errorf("(target) %w: %q", ErrUnsupportedScheme, t.Scheme)
	}
}

func (t Target) ftpConfig(settings *configuration.Settings) ftp.Config {
	cfg := ftp.Config{
		Host:               t.Host,
		Port:               t.Port,
		User:               settings.FTPUser,
		Password:           settings.FTPPassword,
		Timeout:            settings.FTPTimeout,
		TLS:                t.Scheme == schemeFTPS,
		InsecureSkipVerify: settings.FTPTLSSkipVerify,
		DisableEPSV:        settings.FTPDisableEPSV,
	}
	if cfg.Port == 0 && settings.FTPPort > 0 {
		cfg.Port = settings.FTPPort
	}
	if t.User != "" {
		cfg.User = t.User
		cfg.Password = t.Password
	}

	return cfg
}

func (t Target) objectstoreConfig(settings *configuration.Settings) objectstore.Config {
	return objectstore.Config{
		Bucket:       t.Host,
		Region:       settings.S3Region,
		Endpoint:     settings.S3Endpoint,
		AccessKey:    settings.S3AccessKey,
		SecretKey:    settings.S3SecretKey,
		SessionToken: settings.S3SessionToken,
	}
}
