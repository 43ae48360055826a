package generator

import (
	"errors"
	"strings"
	"testing"

	"updategen/internal/domain"
)

func TestCapOutputPassesThroughAtCap(t *testing.T) {
	md := strings.Repeat("a", 100)

	got, warnings, err := capOutput(md, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != md {
		t.Fatalf("output at the cap must pass through unmodified")
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestCapOutputTruncatesOverCap(t *testing.T) {
	md := strings.Repeat("a", 101)

	got, warnings, err := capOutput(md, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len([]rune(got)) != 100 {
		t.Fatalf("truncated length = %d, want 100", len([]rune(got)))
	}
	if len(warnings) != 1 || warnings[0] != "output truncated to 100 characters" {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestCapOutputCountsRunesNotBytes(t *testing.T) {
	md := strings.Repeat("é", 50)

	got, warnings, err := capOutput(md, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != md {
		t.Fatalf("50 runes must fit a 50-char cap even at 100 bytes")
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestCapOutputNormalizesLineEndings(t *testing.T) {
	got, _, err := capOutput("## TL;DR\r\n- shipped\r\n", 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "## TL;DR\n- shipped" {
		t.Fatalf("unexpected normalized output: %q", got)
	}
}

func TestCapOutputRejectsEmptyOutput(t *testing.T) {
	for _, input := range []string{"", "   \n\t  "} {
		if _, _, err := capOutput(input, 100); !errors.Is(err, errEmptyOutput) {
			t.Fatalf("capOutput(%q) error = %v, want errEmptyOutput", input, err)
		}
	}
}

func TestNormalizeHeadingName(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		want    string
	}{
		{"Plain", "TL;DR", "TL;DR"},
		{"Bold", "**Risks**", "Risks"},
		{"TrailingColon", "Asks:", "Asks"},
		{"ExtraWhitespace", "What   changed", "What changed"},
		{"Underscores", "_Next up_", "Next up"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := normalizeHeadingName(test.heading)

			if got != test.want {
				t.Errorf("normalizeHeadingName(%q) = %q, want %q", test.heading, got, test.want)
			}
		})
	}
}

func TestValidateStructure(t *testing.T) {
	execSettings := domain.Settings{
		Audience: domain.AudienceExec,
		Length:   domain.LengthStandard,
		Tone:     domain.ToneNeutral,
	}
	crossSettings := domain.Settings{
		Audience: domain.AudienceCrossFunctional,
		Length:   domain.LengthStandard,
		Tone:     domain.ToneNeutral,
	}

	tests := []struct {
		name            string
		markdown        string
		settings        domain.Settings
		metricsDetected bool
		want            []string
	}{
		{
			"ConformingExecDocument",
			"# Update\n\n## TL;DR\n- a\n\n## What changed\n- b\n\n## Open questions\n- c",
			execSettings,
			false,
			nil,
		},
		{
			"NoHeadings",
			"just a paragraph of text",
			execSettings,
			false,
			[]string{`output is missing section headings (expected "##" sections)`},
		},
		{
			"UnexpectedHeading",
			"## TL;DR\n- a\n\n## Roadmap\n- b",
			execSettings,
			false,
			[]string{`unexpected section heading: "Roadmap"`},
		},
		{
			"DecoratedHeadingStillMatches",
			"## **TL;DR**\n- a\n\n## What changed:\n- b",
			execSettings,
			false,
			nil,
		},
		{
			"MetricsAllowedWhenDetected",
			"## TL;DR\n- a\n\n## Metrics\n- p99 120ms",
			crossSettings,
			true,
			nil,
		},
		{
			"MetricsWithoutSignalWarnsTwice",
			"## TL;DR\n- a\n\n## Metrics\n- made up",
			crossSettings,
			false,
			[]string{
				`unexpected section heading: "Metrics"`,
				"metrics section included but no metrics were detected in the notes",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := validateStructure(test.markdown, test.settings, test.metricsDetected)

			if len(got) != len(test.want) {
				t.Fatalf("warnings = %v, want %v", got, test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("warning %d = %q, want %q", i, got[i], test.want[i])
				}
			}
		})
	}
}
