package gemini

import (
	"fmt"
	"strings"

	"fashionflow/models"

	"github.com/google/generative-ai-go/genai"
)

const describePrompt = `
You are a fashion merchandiser writing catalogue copy. Look at the uploaded fashion design and describe it as a
product a shopper could buy.

Return a single minified JSON object with exactly this structure, without markdown or any text around it:
{"description":"string, 2-4 sentences covering garment type, silhouette, fabric, colours and styling","category":"string, one word such as dress, jacket, shirt, trousers, skirt, shoes, bag, accessory","attributes":["short attribute", ...]}

If the image is not a fashion item, set "category" to "unknown" and explain briefly in "description".
`

const trendPromptTemplate = `
You are a fashion market analyst. Assess the market outlook over the next five months for the product below and
the target market given.

**Product Description:**
%s

**Target Market:**
- Location: %s
- Age group: %s
- Gender: %s

Answer with a single minified JSON object with exactly this structure, without markdown or any text around it:
{"trendLabel":"short phrase such as Strong Renewal Likely, Moderate Growth, Stable, Emerging Niche or Trend Expected to Fade","sentiment":"one of Very Positive, Positive, Neutral, Negative, Very Negative","confidenceLevel":"one of High, Medium, Low","analysisText":"3-5 sentences explaining the outlook","keyFactors":["short factor", ...]}
`

// constructTrendPrompt fills the trend template, marking missing market
// descriptors as unspecified.
func constructTrendPrompt(req models.TrendRequest) string {
	orUnspecified := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "unspecified"
		}
		return strings.TrimSpace(s)
	}
	return fmt.Sprintf(trendPromptTemplate,
		strings.TrimSpace(req.Description),
		orUnspecified(req.Location),
		orUnspecified(req.AgeGroup),
		orUnspecified(req.Gender),
	)
}

// trendSchema constrains the model's JSON output for trend predictions.
var trendSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"trendLabel":      {Type: genai.TypeString},
		"sentiment":       {Type: genai.TypeString, Enum: []string{"Very Positive", "Positive", "Neutral", "Negative", "Very Negative"}},
		"confidenceLevel": {Type: genai.TypeString, Enum: []string{"High", "Medium", "Low"}},
		"analysisText":    {Type: genai.TypeString},
		"keyFactors":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"trendLabel", "sentiment", "confidenceLevel", "analysisText"},
}

var describeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description": {Type: genai.TypeString},
		"category":    {Type: genai.TypeString},
		"attributes":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"description", "category"},
}
