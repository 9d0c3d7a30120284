package types

// Chat roles as the model API names them
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message in a chat session transcript.
type Turn struct {
	Role string `json:"role"` // user|model
	Text string `json:"text"`
}
