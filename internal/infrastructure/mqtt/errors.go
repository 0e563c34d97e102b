package mqtt

import "errors"

// Errors returned by the broker client. Operations that talk to the broker
// wrap these with the underlying paho error, so test with errors.Is.
var (
	// ErrNotConnected is returned by Publish, Subscribe and HealthCheck while the
	// broker link is down.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed wraps a failed or timed-out initial connect.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed wraps a rejected or timed-out parameter publish.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed wraps a rejected or timed-out subscription to the
	// parameter set topics.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrUnsubscribeFailed wraps a failed unsubscribe on bridge shutdown.
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe failed")

	// ErrInvalidQoS is returned for a QoS outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic is returned for an empty topic.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
