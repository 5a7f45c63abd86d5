package contract

import (
	"context"

	"partyline/domain"
	"partyline/domain/event"
)

// EventSink is one live connection's inbox. Consume must not block the
// publisher: implementations buffer and drop when full.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Registry maps live connections to topics and fans events out to them.
// Delivery is best-effort, ordered per topic, fire-and-forget.
type Registry interface {
	Subscribe(connectionID, topic string, sink EventSink)
	Unsubscribe(connectionID, topic string)
	UnsubscribeAll(connectionID string)
	Publish(ctx context.Context, e event.DomainEvent)
	IsUserOnline(userID string) bool
}

// AuthProvider verifies credentials. The core never sees raw credential
// material beyond these calls; credentialRef is opaque.
type AuthProvider interface {
	Register(ctx context.Context, username, credentialRef string) (domain.User, error)
	// Authenticate returns the user and a session token for the realtime
	// endpoint.
	Authenticate(ctx context.Context, username, credentialRef string) (domain.User, string, error)
	// VerifyToken resolves a session token minted by Authenticate to a user id.
	VerifyToken(token string) (string, error)
}

// ObjectStore persists uploaded media blobs and returns a URI that message
// content can carry. The returned content type is sniffed, not trusted.
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte) (uri string, contentType string, err error)
}
