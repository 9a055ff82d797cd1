package extract

import "testing"

func TestIsFactualClaim_RejectsOpinions(t *testing.T) {
	sentences := []string{
		"I think the economy is doing great",
		"I believe we landed on the Moon in 1969",
		"In my opinion this is the best approach",
		"Maybe the numbers are wrong",
		"Perhaps 50 percent of people agree",
		"I THINK this is 100 percent certain", // markers are case-insensitive
	}

	for _, s := range sentences {
		if IsFactualClaim(s) {
			t.Errorf("expected opinion to be rejected: %q", s)
		}
	}
}

func TestIsFactualClaim_RejectsQuestions(t *testing.T) {
	sentences := []string{
		"Is the Earth 4.5 billion years old?",
		"The population was 8 billion in 2023?",
		"The population was 8 billion in 2023?  ", // trailing whitespace
	}

	for _, s := range sentences {
		if IsFactualClaim(s) {
			t.Errorf("expected question to be rejected: %q", s)
		}
	}
}

func TestIsFactualClaim_AcceptsFactualIndicators(t *testing.T) {
	cases := []struct {
		name     string
		sentence string
	}{
		{"digits", "The building stands 828 meters tall"},
		{"factual verb", "The Nile is the longest river in Africa"},
		{"unit token", "Sea levels rose by several kilometers over geologic time"},
		{"citation phrase", "According to the survey, most respondents agreed"},
		{"citation phrase 2", "Studies show regular exercise improves mood"},
	}

	for _, tc := range cases {
		if !IsFactualClaim(tc.sentence) {
			t.Errorf("%s: expected acceptance for %q", tc.name, tc.sentence)
		}
	}
}

func TestIsFactualClaim_RejectionWinsOverAcceptance(t *testing.T) {
	// Contains digits and a factual verb, but the opinion marker runs first
	s := "I think the Earth is 4.5 billion years old"
	if IsFactualClaim(s) {
		t.Errorf("rejection rules must short-circuit acceptance: %q", s)
	}
}

func TestIsFactualClaim_WordBoundaries(t *testing.T) {
	// "island" and "escalator" contain verb substrings but no whole-word match
	s := "An island escalator"
	if IsFactualClaim(s) {
		t.Errorf("substring matches must not count as factual verbs: %q", s)
	}

	if !IsFactualClaim("The island is volcanic") {
		t.Error("whole-word factual verb should be accepted")
	}
}

func TestIsFactualClaim_NoIndicators(t *testing.T) {
	if IsFactualClaim("A quiet walk through the old town") {
		t.Error("sentence without factual indicators should be rejected")
	}
}
