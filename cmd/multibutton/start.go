package main

import (
	"context"
	"fmt"
	"github.com/callebjorkell/multibutton/internal/alarm"
	"github.com/callebjorkell/multibutton/internal/button"
	"github.com/callebjorkell/multibutton/internal/pin"
	"github.com/callebjorkell/multibutton/internal/publish"
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func startServer(conf *Config) error {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	sinks, closeIndicators, err := openSinks(conf)
	if err != nil {
		return err
	}
	defer closeIndicators()

	publisher := publish.NewPublisher(conf.QueueSize, sinks...)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("Unable to close sinks: ", err)
		}
	}()

	registry := button.NewRegistry()
	a := alarm.New(registry.OnTimerExpiry)
	defer a.Stop()
	registry.SetTimer(a.Arm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	var lines []pin.Line
	defer func() {
		cancel()
		wg.Wait()
		for _, l := range lines {
			if err := l.Close(); err != nil {
				log.Warnf("Unable to close %v: %v", l.Name(), err)
			}
		}
	}()

	for _, bc := range conf.Buttons {
		l, err := pin.Open(conf.PinConfig(bc))
		if err != nil {
			return fmt.Errorf("open button %v: %w", bc.Name, err)
		}
		lines = append(lines, l)

		b := registry.RegisterButton(l, bc.RegistryConfig())
		bindHandlers(b, bc, publisher.Notify)
		if err := registry.Activate(b); err != nil {
			return err
		}

		wg.Add(1)
		go func(l pin.Line, b *button.Button) {
			defer wg.Done()
			err := l.Watch(ctx, func(now time.Time) {
				registry.OnPinEdge(b, now)
			})
			if err != nil {
				log.Errorf("Stopped watching %v: %v", l.Name(), err)
			}
		}(l, b)
	}

	go publisher.Run(ctx)
	log.Infof("Listening to %d buttons", len(conf.Buttons))

	<-signalChan
	log.Info("Shutting down...")
	return nil
}

// bindHandlers sends every configured event of b to notify.
func bindHandlers(b *button.Button, c ButtonConfig, notify button.Handler) {
	b.OnPress(notify)
	b.OnRelease(notify)
	for _, n := range c.Sequences {
		b.OnSequence(n, notify)
	}
	for _, d := range c.LongPresses {
		b.OnLongPress(d, notify)
	}
}
