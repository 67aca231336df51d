package kafka

// NewPublisherWithWriter exposes the writer seam to tests.
func NewPublisherWithWriter(writer messageWriter, topic string) *Publisher {
	return newPublisher(writer, topic)
}
