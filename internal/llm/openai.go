package llm

import (
	"context"
	"fmt"

	"github.com/lithammer/dedent"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"github.com/stylemate/stylemate/internal/item"
)

const visionModel = "gpt-5.2"

const visionSystemPrompt = "You are a fashion product analyst. You extract structured product data from e-commerce product images."

var visionPrompt = dedent.Dedent(`
	이 상품 이미지를 분석해서 아래 필드를 가진 JSON 객체 하나만 반환하세요.
	상품 페이지 URL: %s

	- name: 상품명 (브랜드 포함, 한국어)
	- category: tops, bottoms, outerwear, shoes, accessories 중 하나
	- brand: 브랜드명 (모르면 빈 문자열)
	- price: 예상 가격 (원화 정수, 모르면 0)
	- colors: 색상 목록 (한국어)
	- material: 소재 (모르면 빈 문자열)
	- fit: 핏 (예: 오버핏, 슬림핏, 모르면 빈 문자열)
	- description: 상품 설명 2-3문장 (한국어)

	응답은 반드시 아래처럼 JSON 코드 블록으로만 하세요:
	` + "```json" + `
	{"name": "...", "category": "tops", "brand": "...", "price": 45000, "colors": ["블랙"], "material": "...", "fit": "...", "description": "..."}
	` + "```")

var visionRetryPrompt = dedent.Dedent(`
	Describe this clothing item as JSON only:
	{"name": "", "category": "tops|bottoms|outerwear|shoes|accessories", "brand": "", "price": 0, "colors": [], "material": "", "fit": "", "description": ""}
	No other text.`)

// OpenAIAnalyzer analyzes product images through a multimodal chat
// completion endpoint, submitting the image by URL reference.
type OpenAIAnalyzer struct {
	client openai.Client
}

// NewOpenAIAnalyzer creates an analyzer for the given API key. Extra request
// options (such as a test server base URL) may be supplied.
func NewOpenAIAnalyzer(apiKey string, opts ...option.RequestOption) *OpenAIAnalyzer {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIAnalyzer{client: openai.NewClient(opts...)}
}

// AnalyzeProductImage implements Analyzer. A refusal or an unparseable
// response triggers one lower-fidelity retry with a shorter English prompt
// before giving up.
func (o *OpenAIAnalyzer) AnalyzeProductImage(ctx context.Context, imageURL, originalURL string) (*item.Item, error) {
	prompt := fmt.Sprintf(visionPrompt, originalURL)
	result, err := o.request(ctx, prompt, imageURL, "high", 0.2)
	if err == nil {
		return result, nil
	}
	log.Info().Err(err).Msg("primary vision attempt failed, retrying with reduced fidelity")

	result, err = o.request(ctx, visionRetryPrompt, imageURL, "low", 0.4)
	if err != nil {
		return nil, fmt.Errorf("vision analysis failed after retry: %w", err)
	}
	return result, nil
}

func (o *OpenAIAnalyzer) request(ctx context.Context, prompt, imageURL, detail string, temperature float64) (*item.Item, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: visionModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(visionSystemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL:    imageURL,
					Detail: detail,
				}),
			}),
		},
		MaxTokens:   openai.Int(800),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	text := resp.Choices[0].Message.Content
	if isRefusal(text) {
		return nil, fmt.Errorf("model refused to analyze image: %s", truncate(text, 80))
	}
	return parseItemResponse(text)
}
