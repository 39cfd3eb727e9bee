package imagegen

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"giyinme/pkg/dataurl"
)

// BlockedError reports a prompt rejected before generation.
type BlockedError struct {
	Reason  string
	Message string
}

func (e *BlockedError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("Request was blocked. Reason: %s. %s", e.Reason, e.Message))
}

// FinishError reports a candidate that stopped for a reason other than STOP.
type FinishError struct {
	Reason string
}

func (e *FinishError) Error() string {
	return fmt.Sprintf("Image generation stopped unexpectedly. Reason: %s. This often relates to safety settings.", e.Reason)
}

// NoImageError reports a completed response without any image part.
type NoImageError struct {
	Text string
}

func (e *NoImageError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("The AI model did not return an image. The model responded with text: %q", e.Text)
	}
	return "The AI model did not return an image. This can happen due to safety filters or if the request is too complex. Please try a different image."
}

// ExtractImage returns the first inline image of resp as a data URL.
func ExtractImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", &NoImageError{}
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", &BlockedError{Reason: string(fb.BlockReason), Message: fb.BlockReasonMessage}
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return dataurl.Encode(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		reason := resp.Candidates[0].FinishReason
		if reason != "" && reason != genai.FinishReasonStop {
			return "", &FinishError{Reason: string(reason)}
		}
	}
	return "", &NoImageError{Text: responseText(resp)}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}
