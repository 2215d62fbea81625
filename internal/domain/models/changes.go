package models

import "strings"

// ChangeStatus clasifica un archivo cambiado según git
type ChangeStatus string

const (
	StatusAdded     ChangeStatus = "added"
	StatusModified  ChangeStatus = "modified"
	StatusDeleted   ChangeStatus = "deleted"
	StatusUntracked ChangeStatus = "untracked"
)

// StatusFromPorcelain traduce el código de dos letras de `git status
// --porcelain`. Un borrado en cualquiera de las dos columnas gana; un
// agregado solo cuenta desde el índice.
func StatusFromPorcelain(code string) ChangeStatus {
	trimmed := strings.TrimSpace(code)
	switch {
	case trimmed == "??":
		return StatusUntracked
	case strings.Contains(trimmed, "D"):
		return StatusDeleted
	case strings.HasPrefix(trimmed, "A"):
		return StatusAdded
	default:
		return StatusModified
	}
}

type (
	// ChangeRecord representa un archivo cambiado. Diff queda vacío cuando la
	// lectura del contenido falló; el registro igual se conserva con estado y ruta.
	ChangeRecord struct {
		Status   ChangeStatus `json:"status"`
		FilePath string       `json:"filePath"`
		Diff     string       `json:"diff,omitempty"`
	}

	// BranchInfo es la rama y el commit resueltos para la corrida
	BranchInfo struct {
		Branch     string `json:"branch"`
		CommitHash string `json:"commitHash"`
	}

	// ChangeSet es el resultado del collector: cambios ya filtrados por
	// relevancia y la información de rama/commit
	ChangeSet struct {
		Changes    []ChangeRecord `json:"changes"`
		BranchInfo BranchInfo     `json:"branchInfo"`
	}
)

// DeletedFileDiff es el marcador que se usa como diff de archivos borrados
const DeletedFileDiff = "[file deleted]"
