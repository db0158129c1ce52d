package bus

import (
	"context"
)

// Message is one published payload on a channel
//
// Publisher is the player id of the originating client, or SERVER_PUBLISHER
// for messages published by the matchmaker itself
type Message struct {
	ID        string      `json:"id,omitempty"`
	Publisher string      `json:"publisher,omitempty"`
	Channel   string      `json:"channel"`
	Data      interface{} `json:"data"`
}

const SERVER_PUBLISHER = "server"

type Handler func(msg Message)

// Bus is the realtime message bus used to receive join requests and
// constraint updates and to publish match notifications
type Bus interface {
	Publish(ctx context.Context, channel string, data interface{}) error
	Subscribe(channel string, handler Handler)
}
