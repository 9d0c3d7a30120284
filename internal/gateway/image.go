package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/localpulse/localpulse/internal/llm"
)

// AnalyzeImage sends an image plus a free-text question to the vision model
// and returns the raw text reply. Both the prompt and the image payload are
// required and checked before any external call is made.
func (g *Gateway) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &InputError{Field: "prompt", Message: "prompt is required"}
	}
	if len(image) == 0 {
		return "", &InputError{Field: "image", Message: "image payload is required"}
	}
	if mimeType == "" {
		return "", &InputError{Field: "mime_type", Message: "image MIME type is required"}
	}

	text, err := g.client.GenerateVision(ctx, prompt, image, mimeType, llm.TierStandard)
	if err != nil {
		return "", &APICallError{Message: "image analysis failed", Cause: err}
	}

	return text, nil
}

// GenerateImage asks the image model to render the prompt and returns the
// result as an inline data URL. An empty string means no image was produced;
// service failures are folded into the same empty result on purpose, since
// the caller treats "no image" and "failed" identically.
func (g *Gateway) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &InputError{Field: "prompt", Message: "prompt is required"}
	}

	blob, err := g.client.GenerateImage(ctx, prompt)
	if err != nil {
		log.Printf("[gateway] image generation failed: %v", err)
		return "", nil
	}
	if blob == nil || len(blob.Data) == 0 {
		return "", nil
	}

	mimeType := blob.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(blob.Data)), nil
}
