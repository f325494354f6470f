package progress

// SubjectStat tracks quiz results for one user in one subject.
// Correct never exceeds Attempts.
type SubjectStat struct {
	UserID   string
	Subject  string
	Attempts int
	Correct  int
}

// Accuracy returns the share of correct answers as a percentage (0-100).
func (s SubjectStat) Accuracy() int {
	if s.Attempts <= 0 {
		return 0
	}
	accuracy := (s.Correct * 100) / s.Attempts
	if accuracy > 100 {
		accuracy = 100
	}
	if accuracy < 0 {
		accuracy = 0
	}
	return accuracy
}

// Overall sums per-subject stats into a single user-wide stat.
func Overall(userID string, stats []SubjectStat) SubjectStat {
	total := SubjectStat{UserID: userID}
	for _, s := range stats {
		total.Attempts += s.Attempts
		total.Correct += s.Correct
	}
	return total
}
