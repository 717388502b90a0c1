package domain

// TimerState enumerates the dashboard timer states carried on open tickets.
type TimerState string

const (
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
	TimerStopped TimerState = "stopped"
)

// OpenTicket is a chamado currently being worked, including its live timer
// state. The id is caller-supplied and unique across open tickets; an upsert
// with an existing id fully replaces the row.
type OpenTicket struct {
	ID                 string     `json:"id"`
	EstimatedDuration  string     `json:"estimatedDuration"`
	Client             string     `json:"client"`
	ProblemDescription string     `json:"problemDescription"`
	Operator           string     `json:"operator"`
	Executor           string     `json:"executor"`
	StartClockTime     string     `json:"startClockTime"`
	OpenedDate         string     `json:"openedDate"`
	EndClockTime       string     `json:"endClockTime"`
	TimerState         TimerState `json:"timerState"`
	TimerType          string     `json:"timerType"`
	AccumulatedTime    string     `json:"accumulatedTime"`
	StartTime          string     `json:"startTime"`
}

// ArchivedTicket is a chamado filed as closed, with final elapsed-time
// accounting. Archiving copies under the same caller-supplied id; no foreign
// key ties it back to the open table.
type ArchivedTicket struct {
	ID                 string `json:"id"`
	EstimatedDuration  string `json:"estimatedDuration"`
	Client             string `json:"client"`
	ProblemDescription string `json:"problemDescription"`
	Operator           string `json:"operator"`
	Executor           string `json:"executor"`
	OpenedDateTime     string `json:"openedDateTime"`
	EndClockTime       string `json:"endClockTime"`
	ArchivedBy         string `json:"archivedBy"`
	Start              string `json:"start"`
	End                string `json:"end"`
	ElapsedTime        string `json:"elapsedTime"`
	DeadlineStatus     string `json:"deadlineStatus"`
}
