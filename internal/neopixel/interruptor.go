package neopixel

import (
	"errors"
	log "github.com/sirupsen/logrus"
	"sync"
)

// Queue shares the strip between animations. Queueing marks the queue as
// interrupted before waiting for the run lock, so a running animation that
// checks IsInterrupted can give up the strip early.
type Queue struct {
	waiting       int
	runLock       sync.Mutex
	interruptLock sync.Mutex
}

type Unlocker func()

// Queue waits for the strip and returns the function that releases it.
func (i *Queue) Queue() Unlocker {
	i.interrupt()
	i.runLock.Lock()

	i.running()
	return i.done
}

func (i *Queue) running() {
	i.interruptLock.Lock()
	defer i.interruptLock.Unlock()

	i.waiting--
}

func (i *Queue) interrupt() {
	i.interruptLock.Lock()
	defer i.interruptLock.Unlock()

	i.waiting++
	log.Trace("Animations waiting: ", i.waiting)
}

func (i *Queue) IsInterrupted() bool {
	i.interruptLock.Lock()
	defer i.interruptLock.Unlock()

	return i.waiting != 0
}

func (i *Queue) done() {
	defer i.runLock.Unlock()

	i.interruptLock.Lock()
	defer i.interruptLock.Unlock()
	if i.waiting < 0 {
		log.Warn(errors.New("number waiting in queue less than zero"))
	}
}
