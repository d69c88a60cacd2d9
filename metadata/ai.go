// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package metadata

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/docindex/index"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// textExtensions are the file types whose content is plain enough to send
// to a language model.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".rst": true,
	".html": true, ".xml": true, ".json": true, ".yaml": true,
	".yml": true, ".csv": true, ".tsv": true,
}

const extractionPrompt = `Extract a short document title and the most important keywords from the given text and return them as JSON.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting,
or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this shape:

{"title": "...", "keywords": ["...", "..."]}

Rules:
- The title is at most 10 words, taken from or summarizing the text.
- Keywords are lowercase, 1-3 words each, most important first.
- Include only keywords explicitly supported by the text. Do not hallucinate.
- If no title can be identified, use an empty string.`

// contentAnalysis is the wrapper structure for the LLM's JSON response.
type contentAnalysis struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

// ContentExtractor derives keywords and a title from plain-text file
// content using an OpenAI-compatible chat API.
type ContentExtractor struct {
	client llms.Model
	config *Config
	logger *slog.Logger
}

// NewContentExtractor creates a content extractor using the provided
// configuration. A nil config selects DefaultConfig.
func NewContentExtractor(config *Config) (*ContentExtractor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// "none" as token works with local OpenAI-compatible services that
	// don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &ContentExtractor{
		client: client,
		config: config,
		logger: slog.Default().With("component", "content-extractor"),
	}, nil
}

// Supports reports whether path's content type is suitable for extraction.
func (e *ContentExtractor) Supports(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract reads up to MaxContentBytes of path and asks the model for a
// title and keywords. Extraction is best-effort: any failure returns an
// empty slice and no error reaches the upload path.
func (e *ContentExtractor) Extract(ctx context.Context, path string) []index.CustomMetadata {
	if !e.Supports(path) {
		return nil
	}

	text, err := e.readContent(path)
	if err != nil {
		e.logger.Warn("could not read file for extraction", "file", path, "err", err)
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(extractionPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	response, err := e.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		e.logger.Warn("content extraction failed", "file", path, "err", err)
		return nil
	}
	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model", "file", path)
		return nil
	}

	analysis, err := parseAnalysis(response.Choices[0].Content)
	if err != nil {
		e.logger.Warn("error parsing extraction response", "file", path, "err", err)
		return nil
	}

	return e.toEntries(analysis)
}

func (e *ContentExtractor) readContent(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, e.config.MaxContentBytes)
	n, err := file.Read(buf)
	if n == 0 && err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// parseAnalysis unmarshals the model response, stripping markdown code
// fences if present.
func parseAnalysis(responseText string) (contentAnalysis, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var analysis contentAnalysis
	err := json.Unmarshal([]byte(responseText), &analysis)
	return analysis, err
}

func (e *ContentExtractor) toEntries(analysis contentAnalysis) []index.CustomMetadata {
	var entries []index.CustomMetadata

	if title := strings.TrimSpace(analysis.Title); title != "" {
		entries = append(entries, index.CustomMetadata{
			Key:         "ai_title",
			StringValue: title,
		})
	}

	var keywords []string
	for _, keyword := range analysis.Keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		keywords = append(keywords, keyword)
		if len(keywords) == e.config.MaxKeywords {
			break
		}
	}
	if len(keywords) > 0 {
		entries = append(entries, index.CustomMetadata{
			Key:             "ai_keywords",
			StringListValue: keywords,
		})
	}

	return entries
}
