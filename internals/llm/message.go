package llm

type Message struct {
	Role    string // "user" or "assistant"
	Content string
}
