package domain

import "time"

// Badge tiers awarded after a quiz submission. Thresholds are fractions of
// the total, compared as floats so small totals round the right way.
const (
	BadgeHero       = "Cyber Hero"
	BadgeDefender   = "Cyber Defender"
	BadgeLearner    = "Cyber Learner"
	BadgePracticing = "Keep Practicing"
)

// BadgeFor maps a score fraction to a badge tier.
func BadgeFor(score, total int) string {
	if total <= 0 {
		return BadgePracticing
	}
	switch {
	case score == total:
		return BadgeHero
	case float64(score) >= 0.75*float64(total):
		return BadgeDefender
	case float64(score) >= 0.5*float64(total):
		return BadgeLearner
	default:
		return BadgePracticing
	}
}

// User is a registered trainee. The Last* fields are the quiz summary row:
// they reflect the most recent submission only and feed the leaderboard and
// the anti-repeat pool of the next session.
type User struct {
	ID              string
	Username        string
	Email           string
	HashedPassword  string
	LastScore       int
	LastBadge       string
	LastAttemptTime time.Time
	LastQuestionIDs []int64
	CreatedAt       time.Time
}

// Question is an immutable MCQ record. Answer is the index into Options and
// must never leave the server.
type Question struct {
	ID      int64    `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// PublicQuestion is a Question with the answer stripped for delivery.
type PublicQuestion struct {
	ID      int64    `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// Public strips the correct-answer field.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
}

// QuizStart is the payload handed to a user when a session is issued.
type QuizStart struct {
	Questions []PublicQuestion `json:"questions"`
	Timer     int              `json:"timer"`
}

// QuizAttempt is one append-only row per submission.
type QuizAttempt struct {
	ID          int64
	UserID      string
	Score       int
	Total       int
	SubmittedAt time.Time
	QuestionIDs []int64
}

// QuizResult is the graded outcome of a submission. Correct and Wrong hold
// the prompt texts in stored question-id order.
type QuizResult struct {
	Score   int      `json:"score"`
	Total   int      `json:"total"`
	Badge   string   `json:"badge"`
	Correct []string `json:"correct"`
	Wrong   []string `json:"wrong"`
}

// LeaderboardEntry is the latest-result standing of one user.
type LeaderboardEntry struct {
	Username        string    `json:"username"`
	LastScore       int       `json:"last_score"`
	LastBadge       string    `json:"last_badge"`
	LastAttemptTime time.Time `json:"last_attempt_time"`
}

// FileNode is one entry in the simulated case filesystem. ParentID nil means
// root level; nodes form a tree, never a graph.
type FileNode struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Type              string    `json:"type"`
	Size              int64     `json:"size"`
	Author            string    `json:"author"`
	Modified          time.Time `json:"modified"`
	Notes             string    `json:"notes"`
	Content           string    `json:"content"`
	Path              string    `json:"path,omitempty"`
	IsHidden          bool      `json:"is_hidden"`
	IsMalware         bool      `json:"is_malware"`
	ContainsSensitive bool      `json:"contains_sensitive"`
	ParentID          *int64    `json:"parent_id,omitempty"`
}

// IsContainer reports whether the node can be extracted.
func (n FileNode) IsContainer() bool { return n.Type == "zip" }

// HiddenMetadata is an EXIF-like keyed payload attached to a single
// designated node. The embedded secret stays encoded here; decoding is the
// grader's job.
type HiddenMetadata map[string]string

// Assessment is a user's three findings for a case.
type Assessment struct {
	MalwareID     int64
	SensitiveID   int64
	DecodedPhrase string
}

// AssessmentResult scores an Assessment 0..3 against ground truth. Secret is
// revealed only when the case is solved.
type AssessmentResult struct {
	Score    int      `json:"score"`
	Solved   bool     `json:"solved"`
	Feedback []string `json:"feedback"`
	Secret   string   `json:"secret,omitempty"`
}

// CaseTruth is the fixed ground truth of a case, derived from seed data.
type CaseTruth struct {
	MalwareID   int64
	SensitiveID int64
	Secret      string
}

// DrillLevel is one command-line exercise. Solution is compared after
// whitespace normalization and never leaves the server.
type DrillLevel struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Hint        string `json:"hint,omitempty"`
	Solution    string `json:"-"`
}

// DrillResult is the outcome of one command check. Hint is populated once
// enough failed attempts unlock it.
type DrillResult struct {
	Correct  bool   `json:"correct"`
	Attempts int    `json:"attempts"`
	Hint     string `json:"hint,omitempty"`
}

// MissionScore tracks the beginner phone case per user.
type MissionScore struct {
	UserID string `json:"-"`
	Score  int    `json:"score"`
	Status string `json:"status"`
}
