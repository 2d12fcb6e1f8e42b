// Package messaging publishes events to a broker selected at startup: NATS,
// Kafka, NSQ, Google Pub/Sub, or a noop publisher that only logs.
//
// Business code depends on the Publisher interface and never on a broker
// client.
package messaging
