package access

// Flat cost model for AI queries. Unlike quizzes, the AI fee is a fixed
// amount that additionally requires a minimum held balance.
const (
	AIQueryCost        = 550
	AIMinCreditBalance = 3000
)

// Free-access consumption thresholds. A quiz attempt spends the last
// remaining unit; an AI query needs at least two units banked.
const (
	quizFreeAccessMin = 1
	aiFreeAccessMin   = 2
)

// moderationBypassThreshold is the number of questions within a quiz's pool
// a user must have moderated to take that quiz without charge.
const moderationBypassThreshold = 5

// QuizCreditCost maps a quiz's credit hours to its price in quiz credits.
// This is a fixed lookup, not a formula: note the jump between one and two
// hours, and the flat cap for everything outside the table.
func QuizCreditCost(creditHours int) int {
	switch creditHours {
	case 1:
		return 125
	case 2:
		return 200
	case 3:
		return 300
	default:
		return 300
	}
}
