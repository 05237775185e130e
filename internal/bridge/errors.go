//go:build tinygo

package bridge

import "errors"

var (
	errConnectTimeout = errors.New("bridge: mqtt connect timeout")
	errDisconnectDone = errors.New("bridge: publish cycle complete")
)
