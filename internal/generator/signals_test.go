package generator

import "testing"

func TestMetricsLikelyPresent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			"Percentage",
			"conversion improved by 3.5% this week",
			true,
		},
		{
			"Percentile",
			"p99 latency is stable",
			true,
		},
		{
			"Duration",
			"cold start dropped to 120ms",
			true,
		},
		{
			"Keyword with digits",
			"latency went from 300 to 250",
			true,
		},
		{
			"Keyword without digits",
			"we should improve latency eventually",
			false,
		},
		{
			"Digits without keyword",
			"met with 3 teams about the rollout",
			false,
		},
		{
			"Plain prose",
			"shipped the onboarding redesign and wrote docs",
			false,
		},
		{
			"Empty",
			"",
			false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := MetricsLikelyPresent(test.input)

			if got != test.want {
				t.Errorf("MetricsLikelyPresent(%q) = %v, want %v", test.input, got, test.want)
			}
		})
	}
}
