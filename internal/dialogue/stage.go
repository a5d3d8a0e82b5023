package dialogue

type Stage string

const (
	StageGreeting             Stage = "greeting"
	StageInitialQuestion      Stage = "initial_question"
	StageInformationGathering Stage = "information_gathering"
	StageQualification        Stage = "qualification"
)

// StageFor derives the stage from the number of user messages so far.
func StageFor(userMessages int) Stage {
	switch {
	case userMessages <= 0:
		return StageGreeting
	case userMessages == 1:
		return StageInitialQuestion
	case userMessages < 4:
		return StageInformationGathering
	default:
		return StageQualification
	}
}
