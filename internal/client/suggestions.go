package client

import "fmt"

// StorageKey is the key under which the transcript is persisted
const StorageKey = "chatbot_message_history"

// ApologyMessage replaces the assistant placeholder when an exchange fails
const ApologyMessage = "Sorry, something went wrong. Please try again."

var suggestedQuestions = []string{
	"What are your main skills?",
	"Tell me about your projects",
	"What's your experience?",
	"What technologies do you use?",
}

// SuggestedQuestions returns the canned questions offered on an empty transcript
func SuggestedQuestions() []string {
	out := make([]string, len(suggestedQuestions))
	copy(out, suggestedQuestions)
	return out
}

// WelcomeMessage is shown while the transcript is empty
func WelcomeMessage(assistantName string) string {
	return fmt.Sprintf("Hi! I'm %s's AI assistant. Feel free to ask me about their projects, skills, experience, or anything else you'd like to know!", assistantName)
}
