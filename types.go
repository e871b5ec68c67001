package roshclip

// Publisher is the output sink collaborator. One invocation publishes a
// single plain-text string; publishing the empty string clears the sink.
type Publisher interface {
	Publish(text string) error
}
