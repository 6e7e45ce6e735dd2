package port

import "context"

// Attachment is binary content sent alongside the instruction.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// ModelRequest is one outbound model call: a fixed instruction plus either a
// binary attachment or inline text.
type ModelRequest struct {
	Instruction string
	Attachment  *Attachment
	Text        string
}

// ModelResponse is the model's free-text answer. Text is empty when the model
// returned no content.
type ModelResponse struct {
	Text         string
	Model        string
	FinishReason string
}

// ModelClient abstracts a hosted generative model.
type ModelClient interface {
	Generate(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}
