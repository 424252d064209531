package port

import "context"

// DescribeInput carries one prompt-plus-image request to a multimodal model.
type DescribeInput struct {
	Prompt      string
	ImageBytes  []byte
	ContentType string
}

// DescribeOutput is the raw model response. Text carries no shape guarantee;
// callers that need structure run it through the extract package.
type DescribeOutput struct {
	Text      string
	ModelUsed string
}

// VisionGateway abstracts the external multimodal inference capability.
type VisionGateway interface {
	Describe(ctx context.Context, input DescribeInput) (*DescribeOutput, error)
}
