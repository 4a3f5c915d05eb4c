package server

import "errors"

var (
	errNoHTTPHandler   = errors.New("http handler is not configured")
	errNoListenAddress = errors.New("listen address is empty, set SERVER_ADDRESS or -a")
)
