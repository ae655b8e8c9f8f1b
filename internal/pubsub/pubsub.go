// Package pubsub wraps the Redis publish/subscribe transport behind a narrow
// Subscriber contract so the dispatcher never touches the Redis client directly.
package pubsub

// Message is one raw inbound pub/sub message.
type Message struct {
	Channel string
	Payload []byte
}

// Subscriber delivers inbound messages on a channel that closes when the
// subscription ends. Close stops intake; any messages already delivered must
// still be processed by the consumer.
type Subscriber interface {
	Messages() <-chan Message
	Close() error
}
