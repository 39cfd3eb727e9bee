package imagegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Options configures an Editor.
type Options struct {
	Model   string
	Fetcher Fetcher
	Logger  zerolog.Logger
}

// Editor runs the three try-on edits against a Gemini image model.
type Editor struct {
	gen     ContentGenerator
	model   string
	fetcher Fetcher
	logger  zerolog.Logger
}

// New creates a Gemini API client and wraps it in an Editor.
func New(ctx context.Context, apiKey string, opts Options) (*Editor, error) {
	if apiKey == "" {
		return nil, errors.New("imagegen: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: create client: %w", err)
	}
	return NewEditor(client.Models, opts), nil
}

// NewEditor wraps an existing generator.
func NewEditor(gen ContentGenerator, opts Options) *Editor {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Editor{
		gen:     gen,
		model:   model,
		fetcher: opts.Fetcher,
		logger:  opts.Logger,
	}
}

// BaseModel reframes a user photo into a full-body studio shot.
func (e *Editor) BaseModel(ctx context.Context, photo Image) (string, error) {
	return e.generate(ctx, "base_model", []Image{photo}, baseModelInstruction)
}

// Composite dresses the model image in the garment. modelRef is a data URL
// or a remote URL.
func (e *Editor) Composite(ctx context.Context, modelRef string, garment Image) (string, error) {
	model, err := e.Resolve(ctx, modelRef)
	if err != nil {
		return "", err
	}
	images := []Image{model, garment}
	out, err := e.generate(ctx, "composite", images, compositeInstruction)
	if err == nil || ctx.Err() != nil {
		return out, err
	}
	e.logger.Warn().Err(err).Msg("composite failed, retrying with fallback instruction")
	return e.generate(ctx, "composite_fallback", images, compositeFallbackInstruction)
}

// PoseVariation regenerates ref from the perspective described by pose.
func (e *Editor) PoseVariation(ctx context.Context, ref, pose string) (string, error) {
	src, err := e.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	images := []Image{src}
	out, err := e.generate(ctx, "pose", images, poseInstruction(pose))
	if err == nil || ctx.Err() != nil {
		return out, err
	}
	e.logger.Warn().Err(err).Str("pose", pose).Msg("pose variation failed, retrying with fallback instruction")
	return e.generate(ctx, "pose_fallback", images, poseFallbackInstruction(pose))
}

func (e *Editor) generate(ctx context.Context, op string, images []Image, instruction string) (string, error) {
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		if len(img.Data) == 0 {
			return "", fmt.Errorf("imagegen: %s: empty image", op)
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data}})
	}
	parts = append(parts, genai.NewPartFromText(instruction))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := e.gen.GenerateContent(ctx, e.model, contents, generationConfig())
	if err != nil {
		e.logger.Error().Err(err).Str("op", op).Str("model", e.model).Msg("generate content failed")
		return "", err
	}
	out, err := ExtractImage(resp)
	if err != nil {
		e.logger.Warn().Err(err).Str("op", op).Msg("no usable image in response")
		return "", err
	}
	e.logger.Debug().Str("op", op).Int("candidates", len(resp.Candidates)).Msg("image generated")
	return out, nil
}

func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage), string(genai.ModalityText)},
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}
}
