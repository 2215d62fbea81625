package models

type (
	// FileContext es el análisis heurístico de un archivo cambiado
	FileContext struct {
		FilePath string   `json:"filePath"`
		Language string   `json:"language"`
		Purpose  string   `json:"purpose"`
		Imports  []string `json:"imports,omitempty"`
		Exports  []string `json:"exports,omitempty"`
		Routes   []string `json:"routes,omitempty"`
	}

	// ChangeContext es lo que el Context Builder arma para la submission
	ChangeContext struct {
		Description string         `json:"description"`
		TotalFiles  int            `json:"totalFiles"`
		FileTypes   map[string]int `json:"fileTypes"`
		FocusAreas  []string       `json:"focusAreas,omitempty"`
		Files       []FileContext  `json:"files,omitempty"`
	}

	// RunResult es el resultado estructurado de una corrida del orquestador.
	// Success indica que el pipeline terminó; TestsFailed cuenta los tests
	// generados que fallaron. Son dos señales independientes.
	RunResult struct {
		Success     bool     `json:"success"`
		Error       string   `json:"error,omitempty"`
		SuiteUUID   string   `json:"suiteUuid,omitempty"`
		TestFiles   []string `json:"testFiles"`
		TestsFailed int      `json:"testsFailed"`
	}
)
