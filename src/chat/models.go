package chat

// Model is a selectable Gemini model.
type Model struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// supportedModels is the fixed set exposed to clients, in menu order.
var supportedModels = []Model{
	{ID: "gemini-1.5-flash", Label: "Gemini 1.5 Flash"},
	{ID: "gemini-2.0-flash", Label: "Gemini 2.0 Flash"},
	{ID: "gemini-2.5-flash", Label: "Gemini 2.5 Flash"},
	{ID: "gemini-2.5-pro", Label: "Gemini 2.5 Pro"},
}

// DefaultModel is used when the client does not pick one.
const DefaultModel = "gemini-1.5-flash"

// SupportedModels returns the selectable models in display order.
func SupportedModels() []Model {
	out := make([]Model, len(supportedModels))
	copy(out, supportedModels)
	return out
}

// IsSupportedModel reports whether id is a known model identifier.
func IsSupportedModel(id string) bool {
	for _, m := range supportedModels {
		if m.ID == id {
			return true
		}
	}
	return false
}
