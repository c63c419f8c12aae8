//go:build !pi

package lcd

import (
	log "github.com/sirupsen/logrus"
)

func InitLCD() error {
	log.Infoln("Starting the mock LCD")
	return nil
}

func PrintLine(l Line, msg string) {
	log.Infof("LCD %v: %q", l, fit(msg))
}
