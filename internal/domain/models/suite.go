package models

// RunStatus es el estado de ejecución de una suite en el servidor
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
)

// TestOutcome es el resultado de un test individual
type TestOutcome string

const (
	OutcomePending TestOutcome = "pending"
	OutcomeSkipped TestOutcome = "skipped"
	OutcomeUnknown TestOutcome = "unknown"
	OutcomePass    TestOutcome = "pass"
	OutcomeFail    TestOutcome = "fail"
)

type (
	// TestSuite es una "commit test suite" remota. El cliente solo la lee;
	// el servidor la muta a medida que corren los tests.
	TestSuite struct {
		UUID      string       `json:"uuid"`
		RunStatus RunStatus    `json:"runStatus"`
		Tests     []TestRecord `json:"tests"`
	}

	TestRecord struct {
		UUID   string   `json:"uuid"`
		Name   string   `json:"name"`
		CurRun *TestRun `json:"curRun,omitempty"`
	}

	// TestRun es la corrida actual de un test. Los artefactos están ausentes
	// hasta que la corrida que los produce termina.
	TestRun struct {
		Status    string      `json:"status"`
		Outcome   TestOutcome `json:"outcome"`
		RunScript string      `json:"runScript,omitempty"`
		RunGif    string      `json:"runGif,omitempty"`
		RunJSON   string      `json:"runJson,omitempty"`
	}

	// TunnelEnvironment describe el entorno expuesto al runner remoto
	TunnelEnvironment struct {
		URL      string            `json:"url"`
		Type     string            `json:"type"`
		Metadata map[string]string `json:"metadata,omitempty"`
	}

	// SuiteSubmission es el payload para crear una suite. Exactamente uno de
	// WorkingChanges presente o Type == "pull_request": las submissions de PR
	// omiten los cambios y el servidor los resuelve por su cuenta.
	SuiteSubmission struct {
		RepoName       string             `json:"repoName"`
		RepoPath       string             `json:"repoPath"`
		Branch         string             `json:"branch"`
		CommitHash     string             `json:"commitHash"`
		Type           string             `json:"type,omitempty"`
		WorkingChanges []ChangeRecord     `json:"workingChanges,omitempty"`
		Description    string             `json:"description"`
		Environment    *TunnelEnvironment `json:"environment,omitempty"`
	}
)

// FailedTests cuenta los tests cuya corrida actual terminó en fail
func (s *TestSuite) FailedTests() int {
	count := 0
	for _, test := range s.Tests {
		if test.CurRun != nil && test.CurRun.Outcome == OutcomeFail {
			count++
		}
	}
	return count
}
