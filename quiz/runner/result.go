package runner

type Outcome struct {
	Question string `json:"question"`
	Given    string `json:"given"`
	Correct  bool   `json:"correct"`
	Value    int64  `json:"value"`
}

type Result struct {
	Score    int64     `json:"score"`
	Total    int64     `json:"total"`
	Pass     int64     `json:"pass"`
	Passed   bool      `json:"passed"`
	Outcomes []Outcome `json:"outcomes"`
}

func newResult(pass int64) Result {
	return Result{
		Score:    0,
		Total:    0,
		Pass:     pass,
		Passed:   false,
		Outcomes: make([]Outcome, 0),
	}
}

// Record accumulates one answered question.
// `value` always counts towards the total, only correct answers add to the score.
func (self *Result) Record(outcome Outcome) {
	self.Total += outcome.Value
	if outcome.Correct {
		self.Score += outcome.Value
	}
	self.Outcomes = append(self.Outcomes, outcome)
}

// A score equal to the threshold passes.
func (self *Result) Finish() {
	self.Passed = self.Score >= self.Pass
}
