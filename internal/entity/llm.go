package entity

// Message roles for chat-completion requests.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat message sent to the model provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Fragment is one incremental piece of model output delivered by the
// generation stream. Reasoning carries thinking-mode output for providers
// that expose it separately from Content. A non-nil Err terminates the
// stream; no further fragments follow it.
type Fragment struct {
	Content   string
	Reasoning string
	Err       error
}

// Text returns the fragment's payload regardless of which container the
// provider delivered it in.
func (f Fragment) Text() string {
	if f.Content != "" {
		return f.Content
	}
	return f.Reasoning
}
