package models

type (
	// AuthResult es la respuesta del probe de autenticación
	AuthResult struct {
		Success bool   `json:"success"`
		User    string `json:"user,omitempty"`
		Error   string `json:"error,omitempty"`
	}

	// CreateSuiteResult es la respuesta de creación de una suite
	CreateSuiteResult struct {
		Success       bool   `json:"success"`
		TestSuiteUUID string `json:"testSuiteUuid,omitempty"`
		TunnelKey     string `json:"tunnelKey,omitempty"`
		Error         string `json:"error,omitempty"`
	}

	// SuiteSummary es una fila del listado de suites
	SuiteSummary struct {
		UUID      string    `json:"uuid"`
		Branch    string    `json:"branch"`
		RunStatus RunStatus `json:"runStatus"`
		CreatedAt string    `json:"createdAt"`
	}
)
