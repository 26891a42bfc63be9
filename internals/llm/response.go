package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

const TypeToolUse = "tool_use"

// Response is a provider-neutral snapshot of one completion.
type Response struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// ContentBlock is one member of a response's content. Name and Input are only
// meaningful when Type is "tool_use".
type ContentBlock struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`
}

// FindToolUseBlock returns the first tool_use block named toolName, in
// content order. The bool is false when nothing matches.
func FindToolUseBlock(resp Response, toolName string) (ContentBlock, bool) {
	for _, block := range resp.Content {
		if block.Type == TypeToolUse && block.Name == toolName {
			return block, true
		}
	}
	return ContentBlock{}, false
}

// Text joins the text blocks of resp with newlines.
func Text(resp Response) string {
	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func FromMessage(msg *anthropic.Message) (Response, error) {
	if msg == nil {
		return Response{}, nil
	}

	out := Response{
		Content:    make([]ContentBlock, 0, len(msg.Content)),
		StopReason: string(msg.StopReason),
	}
	for _, b := range msg.Content {
		block := ContentBlock{
			Type: b.Type,
			Text: b.Text,
			ID:   b.ID,
			Name: b.Name,
		}
		if b.Type == TypeToolUse && len(b.Input) > 0 {
			if err := json.Unmarshal(b.Input, &block.Input); err != nil {
				return Response{}, fmt.Errorf("decode %s input: %w", b.Name, err)
			}
		}
		out.Content = append(out.Content, block)
	}
	return out, nil
}
