package health

// Service reports liveness and whether the analyze provider is wired.
type Service struct {
	modelID     string
	providerErr error
}

// NewService constructs a health service. providerErr is the error, if any,
// met while building the document intelligence client.
func NewService(modelID string, providerErr error) *Service {
	return &Service{modelID: modelID, providerErr: providerErr}
}

// Status returns the health payload.
func (s *Service) Status() map[string]any {
	out := map[string]any{"ok": true}
	if s == nil {
		return out
	}
	out["providerConfigured"] = s.providerErr == nil && s.modelID != ""
	if s.modelID != "" {
		out["modelId"] = s.modelID
	}
	return out
}
