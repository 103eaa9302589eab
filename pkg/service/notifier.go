package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/util/log"
)

// TokenSource returns a bearer token for outgoing requests. An empty token
// sends the request unauthenticated.
type TokenSource func() (string, error)

// Notifier delivers StatusEvents to the URIs consumers registered as
// smContextStatusUri.
type Notifier struct {
	hub         HubConnector
	events      chan interface{}
	client      *http.Client
	concurrency int
	token       TokenSource
}

var _ Component = (*Notifier)(nil)

// NewNotifier subscribes immediately so events published before Run are
// queued rather than lost.
func NewNotifier(hub HubConnector, timeout time.Duration, concurrency int, token TokenSource) *Notifier {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Notifier{
		hub:         hub,
		events:      hub.Subscribe(TopicSmContextStatus),
		client:      &http.Client{Timeout: timeout},
		concurrency: concurrency,
		token:       token,
	}
}

func (n *Notifier) ComponentName() string {
	return "notifier"
}

func (n *Notifier) Run(ctx ComponentRunContext) error {
	sem := make(chan struct{}, n.concurrency)
	wg := &sync.WaitGroup{}
	defer wg.Wait()

	for {
		select {
		case <-ctx.QuitCh:
			go n.hub.Unsubscribe(n.events)
			for range n.events {
			}

			return nil

		case msg, ok := <-n.events:
			if !ok {
				return nil
			}

			ev, isStatus := msg.(*StatusEvent)
			if !isStatus {
				log.Warn("unexpected event on status topic", zap.String("type", fmt.Sprintf("%T", msg)))
				continue
			}

			sem <- struct{}{}
			wg.Add(1)
			go func() {
				defer func() {
					<-sem
					wg.Done()
				}()

				if err := n.Deliver(context.Background(), ev); err != nil {
					log.Warn("status notification failed", zap.String("ref", ev.Ref), zap.String("uri", ev.URI), zap.Error(err))
				} else {
					log.Info("status notification delivered", zap.String("ref", ev.Ref), zap.String("uri", ev.URI))
				}
			}()
		}
	}
}

// Deliver POSTs one notification and expects a 2xx answer.
func (n *Notifier) Deliver(ctx context.Context, ev *StatusEvent) error {
	data, err := json.Marshal(ev.Notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ev.URI, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if n.token != nil {
		token, err := n.token()
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}

		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()
	io.Copy(ioutil.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("consumer answered %d", resp.StatusCode)
	}

	return nil
}
