//go:build !linux

package pin

import "errors"

func openCdev(Config) (Line, error) {
	return nil, errors.New("cdev backend requires linux")
}
