// Package question holds the static interview question catalogue.
package question

// Difficulty identifies a question tier. Each tier has a fixed base score
// and a fixed per-question time limit.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// QuestionsPerTier is how many questions of each tier a session asks.
const QuestionsPerTier = 2

// Label returns the user-facing tier name.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return string(d)
	}
}

// BaseScore returns the maximum score an answer in this tier can earn.
func (d Difficulty) BaseScore() int {
	switch d {
	case Easy:
		return 5
	case Medium:
		return 7
	case Hard:
		return 10
	default:
		return 0
	}
}

// TimeLimitSeconds returns the answer countdown for this tier.
func (d Difficulty) TimeLimitSeconds() int {
	switch d {
	case Easy:
		return 15
	case Medium:
		return 45
	case Hard:
		return 90
	default:
		return 0
	}
}

// Tiers lists the difficulties in asking order.
func Tiers() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// MaxTotalScore is the score ceiling for a full session: QuestionsPerTier
// questions of every tier answered at full base score.
func MaxTotalScore() int {
	total := 0
	for _, tier := range Tiers() {
		total += QuestionsPerTier * tier.BaseScore()
	}
	return total
}

// Spec describes one question as drawn from the bank, before it is asked.
type Spec struct {
	Text             string
	Difficulty       Difficulty
	TimeLimitSeconds int
}

// Bank is the question catalogue grouped by tier.
type Bank struct {
	questions map[Difficulty][]string
}

// Default returns the built-in Full Stack Developer bank.
func Default() *Bank {
	return &Bank{questions: map[Difficulty][]string{
		Easy: {
			"What is the difference between let, const, and var in JavaScript?",
			"Explain the concept of props in React.",
			"What is the purpose of package.json in a Node.js project?",
			"How do you create a functional component in React?",
		},
		Medium: {
			"Explain the difference between useEffect and useLayoutEffect hooks.",
			"What is middleware in Express.js and how do you use it?",
			"How does the virtual DOM work in React?",
			"Explain event delegation in JavaScript.",
		},
		Hard: {
			"Design a scalable architecture for a real-time chat application using React and Node.js.",
			"Explain how you would optimize a React application that's experiencing performance issues.",
			"How would you implement authentication and authorization in a full-stack application?",
			"Describe how you would handle race conditions in asynchronous JavaScript code.",
		},
	}}
}

// WithOverrides returns a bank where tiers with at least QuestionsPerTier
// configured texts replace the built-in ones. Tiers with fewer stay on the
// defaults so the 2/2/2 draw and the score ceiling always hold.
func (b *Bank) WithOverrides(overrides map[Difficulty][]string) *Bank {
	merged := make(map[Difficulty][]string, len(b.questions))
	for tier, texts := range b.questions {
		merged[tier] = texts
	}
	for tier, texts := range overrides {
		if len(texts) >= QuestionsPerTier {
			merged[tier] = texts
		}
	}
	return &Bank{questions: merged}
}

// Draw picks the session's question list: the first QuestionsPerTier
// questions of every tier, in bank order, easiest tier first.
func (b *Bank) Draw() []Spec {
	specs := make([]Spec, 0, QuestionsPerTier*len(Tiers()))
	for _, tier := range Tiers() {
		for _, text := range b.questions[tier][:QuestionsPerTier] {
			specs = append(specs, Spec{
				Text:             text,
				Difficulty:       tier,
				TimeLimitSeconds: tier.TimeLimitSeconds(),
			})
		}
	}
	return specs
}

// Len reports how many questions the bank holds across all tiers.
func (b *Bank) Len() int {
	total := 0
	for _, texts := range b.questions {
		total += len(texts)
	}
	return total
}
