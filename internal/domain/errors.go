package domain

import "errors"

// Business outcomes. Backend failures (db/redis down) are never mapped onto
// these; they propagate as-is so the transport layer can tell 404/409 from 503.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already in use")
)
