package service

import (
	"github.com/cskr/pubsub"

	"github.com/danielkrainas/sbi/pkg/models"
)

const TopicSmContextStatus = "sm_context.status"

// StatusEvent asks the notifier to deliver a status notification to the
// consumer that created the sm context.
type StatusEvent struct {
	Ref          string
	URI          string
	Notification models.SmContextStatusNotification
}

type HubConnector interface {
	Publish(topic string, e interface{})
	Subscribe(topics ...string) chan interface{}
	Unsubscribe(ch chan interface{}, topics ...string)
	Close()
}

// PubSubHub is an in-process HubConnector. Publish blocks once a
// subscriber's buffer of capacity events is full.
type PubSubHub struct {
	ps *pubsub.PubSub
}

var _ HubConnector = (*PubSubHub)(nil)

func NewPubSubHub(capacity int) *PubSubHub {
	return &PubSubHub{ps: pubsub.New(capacity)}
}

func (hub *PubSubHub) Publish(topic string, e interface{}) {
	hub.ps.Pub(e, topic)
}

func (hub *PubSubHub) Subscribe(topics ...string) chan interface{} {
	return hub.ps.Sub(topics...)
}

func (hub *PubSubHub) Unsubscribe(ch chan interface{}, topics ...string) {
	hub.ps.Unsub(ch, topics...)
}

func (hub *PubSubHub) Close() {
	hub.ps.Shutdown()
}
