package quiz

import (
	"github.com/samber/lo"
)

// OptionCount is the number of options every MCQ carries.
const OptionCount = 3

// PaddingOption fills the option list when the generator returned too few.
const PaddingOption = "Extra Option"

// MCQ is a multiple-choice question with exactly OptionCount options.
// Correct is always one of Options.
type MCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

// Valid reports whether the MCQ satisfies the structural invariants.
func (m MCQ) Valid() bool {
	return len(m.Options) == OptionCount && lo.Contains(m.Options, m.Correct)
}

// Normalize turns an untrusted question/options/correct triple into a valid MCQ:
// options are right-padded with PaddingOption or truncated to OptionCount, and
// a correct answer that is not an exact option is replaced by the first option.
func Normalize(question string, options []string, correct string) MCQ {
	opts := make([]string, 0, OptionCount)
	opts = append(opts, options[:min(len(options), OptionCount)]...)
	for len(opts) < OptionCount {
		opts = append(opts, PaddingOption)
	}

	if !lo.Contains(opts, correct) {
		correct = opts[0]
	}

	return MCQ{
		Question: question,
		Options:  opts,
		Correct:  correct,
	}
}

// Fallback is the generic MCQ used whenever the generator output cannot be used.
func Fallback(query string) MCQ {
	return MCQ{
		Question: "What concept is being tested related to: " + query + "?",
		Options:  []string{"Option A", "Option B", "Option C"},
		Correct:  "Option A",
	}
}
