package session

const (
	messageNoSpeechCompleted = "No speech recognized."
	messageNoSpeechCanceled  = "No speech recognized (canceled)."
	messageNoSpeechTimeout   = "No speech recognized (timeout)."
)

func noSpeechMessage(r Resolution) string {
	switch r {
	case ResolutionCanceled:
		return messageNoSpeechCanceled
	case ResolutionTimeout:
		return messageNoSpeechTimeout
	default:
		return messageNoSpeechCompleted
	}
}
