package main

import "errors"

var (
	// ErrEmptyTarget is an error that occurs when no search target was given.
	ErrEmptyTarget = errors.New("empty target")

	// ErrMissingHost is an error that occurs when an FTP URL has no host.
	ErrMissingHost = errors.New("missing host")

	// ErrMissingBucket is an error that occurs when an S3 URL has no bucket.
	ErrMissingBucket = errors.New("missing bucket")

	// ErrUnsupportedScheme is an error that occurs when a target URL has a
	// scheme no backend exists for.
	ErrUnsupportedScheme = errors.New("unsupported scheme")

	// ErrInvalidFormat is an error that occurs when an unknown output format
	// was requested.
	ErrInvalidFormat = errors.New("invalid output format")
)
