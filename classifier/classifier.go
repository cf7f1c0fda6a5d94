package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"reguguard-backend/llm"
	"reguguard-backend/models"

	"go.uber.org/zap"
)

const (
	sopSampleLength    = 6000
	domainHeadLength   = 9000
	domainTailLength   = 1500
	domainTruncateOver = 12000
	maxReasonLength    = 300
)

// Classifier runs both classifiers, preferring the LLM when one is configured.
type Classifier struct {
	client   llm.Client
	detector *Detector
	logger   *zap.SugaredLogger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLLM enables the LLM path.
func WithLLM(client llm.Client) Option {
	return func(c *Classifier) {
		if llm.Available(client) {
			c.client = client
		}
	}
}

// WithDefinitions replaces the domain table.
func WithDefinitions(defs Definitions) Option {
	return func(c *Classifier) {
		c.detector = NewDetector(defs)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// New creates a classifier with the default domain table and no LLM.
func New(opts ...Option) *Classifier {
	c := &Classifier{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(c)
	}
	if c.detector == nil {
		c.detector = NewDetector(DefaultDefinitions())
	}
	return c
}

// Domains lists the allowed domain labels, General last.
func (c *Classifier) Domains() []string {
	return c.detector.Definitions().Labels()
}

// ClassifySOP decides whether text is an SOP. LLM failures fall back to the rule path
// with the failure noted in the reason.
func (c *Classifier) ClassifySOP(ctx context.Context, text string) models.SOPClassification {
	rule := ClassifySOP(text)
	if c.client == nil || strings.TrimSpace(text) == "" {
		return rule
	}
	res, err := c.llmSOP(ctx, text)
	if err != nil {
		c.logger.Warnw("llm sop classification failed, using rules", "error", err)
		rule.Reason = fmt.Sprintf("%s (%s)", rule.Reason, llm.FailureNote(err))
		return rule
	}
	return res
}

// DetectDomain detects the industry domain of text. LLM failures fall back to the
// keyword detector with the failure noted in the reason.
func (c *Classifier) DetectDomain(ctx context.Context, text string) models.DomainClassification {
	rule := c.detector.Detect(text)
	if c.client == nil || strings.TrimSpace(text) == "" {
		return rule
	}
	res, err := c.llmDomain(ctx, text)
	if err != nil {
		c.logger.Warnw("llm domain detection failed, using keywords", "error", err)
		rule.Reason = fmt.Sprintf("%s (%s)", rule.Reason, llm.FailureNote(err))
		return rule
	}
	return res
}

const sopSystemPrompt = "You are a document classifier for company compliance documents. Respond with valid JSON only."

func (c *Classifier) llmSOP(ctx context.Context, text string) (models.SOPClassification, error) {
	sample := text
	if r := []rune(sample); len(r) > sopSampleLength {
		sample = string(r[:sopSampleLength])
	}
	prompt := fmt.Sprintf(`Decide whether the following document is a Standard Operating Procedure, policy or similar compliance document.

DOCUMENT (excerpt):
%s

Respond with JSON only:
{"is_sop": true|false, "reason": "one short sentence", "document_type": "short label"}`, sample)

	out, err := c.client.Complete(ctx, sopSystemPrompt, prompt)
	if err != nil {
		return models.SOPClassification{}, err
	}
	var res struct {
		IsSOP        bool   `json:"is_sop"`
		Reason       string `json:"reason"`
		DocumentType string `json:"document_type"`
	}
	if err := llm.Decode(out, llm.SOPSchema, &res); err != nil {
		return models.SOPClassification{}, err
	}
	if res.Reason == "" {
		res.Reason = "Classified using AI (" + c.client.Name() + ")."
	}
	return models.SOPClassification{
		IsSOP:        res.IsSOP,
		Reason:       truncateRunes(res.Reason, maxReasonLength),
		DocumentType: res.DocumentType,
	}, nil
}

const domainSystemPrompt = "You are a domain classifier. Respond with valid JSON only."

func (c *Classifier) llmDomain(ctx context.Context, text string) (models.DomainClassification, error) {
	sample := strings.TrimSpace(text)
	if r := []rune(sample); len(r) > domainTruncateOver {
		sample = string(r[:domainHeadLength]) + "\n\n[... truncated ...]\n\n" + string(r[len(r)-domainTailLength:])
	}
	allowed, _ := json.MarshalIndent(c.Domains(), "", "  ")
	prompt := fmt.Sprintf(`Classify the document into ONE best-fit domain from the allowed list.

Allowed domains:
%s

DOCUMENT (excerpt):
%s

Respond with JSON only:
{"domain": "<one of the allowed domains or General>", "confidence": <0.0 to 1.0>, "reason": "one short sentence citing the main signals"}`, allowed, sample)

	out, err := c.client.Complete(ctx, domainSystemPrompt, prompt)
	if err != nil {
		return models.DomainClassification{}, err
	}
	var res struct {
		Domain     string  `json:"domain"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	}
	if err := llm.Decode(out, llm.DomainSchema, &res); err != nil {
		return models.DomainClassification{}, err
	}
	domain := strings.TrimSpace(res.Domain)
	if !c.detector.Definitions().Allowed(domain) {
		domain = GeneralDomain
	}
	reason := res.Reason
	if reason == "" {
		reason = "Classified using AI (" + c.client.Name() + ")."
	}
	return models.DomainClassification{
		Domain:     domain,
		Confidence: math.Max(0, math.Min(1, res.Confidence)),
		Reason:     truncateRunes(reason, maxReasonLength),
	}, nil
}

func truncateRunes(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
