//go:build windows

package player

import (
	"errors"
	"os"
)

var errNoFifo = errors.New("named pipes are not supported on windows")

func makeFifo(string) error {
	return errNoFifo
}

func openFifo(string) (*os.File, error) {
	return nil, errNoFifo
}
