package domain

// Audience selects which stakeholder group the update is written for.
type Audience string

const (
	AudienceExec            Audience = "Exec"
	AudienceCrossFunctional Audience = "Cross-functional"
	AudienceEngineering     Audience = "Engineering"
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceExec, AudienceCrossFunctional, AudienceEngineering:
		return true
	}
	return false
}

// Length selects the size tier of the generated update.
type Length string

const (
	LengthShort    Length = "Short"
	LengthStandard Length = "Standard"
	LengthDetailed Length = "Detailed"
)

func (l Length) Valid() bool {
	switch l {
	case LengthShort, LengthStandard, LengthDetailed:
		return true
	}
	return false
}

// Tone selects the writing style of the generated update.
type Tone string

const (
	ToneNeutral  Tone = "Neutral"
	ToneCrisp    Tone = "Crisp"
	ToneFriendly Tone = "Friendly"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneNeutral, ToneCrisp, ToneFriendly:
		return true
	}
	return false
}

// Settings is the fixed-cardinality triple selected by the caller.
// Immutable once a request is accepted.
type Settings struct {
	Audience Audience `json:"audience"`
	Length   Length   `json:"length"`
	Tone     Tone     `json:"tone"`
}

// GenerateRequest is the accepted wire request. RawInput is trimmed at the
// boundary before the request is handed to the pipeline.
type GenerateRequest struct {
	RawInput string   `json:"rawInput"`
	Settings Settings `json:"settings"`
}

// TokenUsage reports provider token accounting when available.
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
}

// Meta describes which provider produced the result and how long it took.
type Meta struct {
	Provider   string `json:"provider"`
	Model      string `json:"model,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// GenerateResponse is the success wire response.
type GenerateResponse struct {
	Markdown string   `json:"markdown"`
	Warnings []string `json:"warnings,omitempty"`
	Meta     *Meta    `json:"meta,omitempty"`
}
