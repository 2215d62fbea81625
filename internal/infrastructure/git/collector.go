package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/Tomas-vilte/MateTest/internal/logger"
	"github.com/Tomas-vilte/MateTest/internal/regex"
)

var _ ports.ChangeCollector = (*ChangeCollector)(nil)

// ChangeCollector obtiene cambios de un repositorio git local. Ninguna
// operación de colección propaga errores: toda falla degrada a un ChangeSet
// vacío o parcial, dejando registro en el log.
type ChangeCollector struct {
	repoPath string
}

func NewChangeCollector(repoPath string) *ChangeCollector {
	return &ChangeCollector{repoPath: repoPath}
}

func (c *ChangeCollector) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.repoPath
	output, err := cmd.Output()
	return string(output), err
}

// IsRepository verifica que repoPath sea un working tree de git
func (c *ChangeCollector) IsRepository(ctx context.Context) bool {
	output, err := c.runGit(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(output) == "true"
}

// CollectWorkingChanges enumera los cambios sin commitear: staged, unstaged,
// untracked y borrados. Los errores por archivo se tragan y el registro se
// conserva con estado y ruta.
func (c *ChangeCollector) CollectWorkingChanges(ctx context.Context) models.ChangeSet {
	changeSet := models.ChangeSet{
		Changes:    []models.ChangeRecord{},
		BranchInfo: c.resolveBranchInfo(ctx, ""),
	}

	output, err := c.runGit(ctx, "status", "--porcelain")
	if err != nil {
		logger.Warn(ctx, "no se pudo obtener el estado del repositorio", "path", c.repoPath)
		return changeSet
	}

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 4 {
			continue
		}

		code := line[:2]
		path := strings.TrimSpace(line[3:])
		if path == "" || ShouldIgnoreFile(path) {
			continue
		}

		record := models.ChangeRecord{
			Status:   models.StatusFromPorcelain(code),
			FilePath: path,
		}
		record.Diff = c.fetchWorkingDiff(ctx, record.Status, code, path)

		changeSet.Changes = append(changeSet.Changes, record)
	}

	return changeSet
}

// fetchWorkingDiff obtiene el contenido del diff para un archivo del working
// tree. Retorna vacío si la lectura falla; nunca lanza.
func (c *ChangeCollector) fetchWorkingDiff(ctx context.Context, status models.ChangeStatus, code, path string) string {
	switch status {
	case models.StatusDeleted:
		return models.DeletedFileDiff
	case models.StatusUntracked:
		content, err := os.ReadFile(filepath.Join(c.repoPath, path))
		if err != nil {
			logger.Debug(ctx, "no se pudo leer el archivo untracked", "path", path)
			return ""
		}
		return string(content)
	default:
		// el primer carácter del código porcelain es el índice: los cambios
		// solo-staged se comparan contra el índice, el resto contra HEAD
		args := []string{"diff", "HEAD", "--", path}
		if code[0] != ' ' && code[0] != '?' && code[1] == ' ' {
			args = []string{"diff", "--cached", "--", path}
		}
		diff, err := c.runGit(ctx, args...)
		if err != nil {
			logger.Debug(ctx, "no se pudo obtener el diff", "path", path)
			return ""
		}
		return diff
	}
}

// CollectCommit arma el ChangeSet de un commit puntual, diffeando commit^
// contra commit. La clasificación sale de los contadores de numstat.
func (c *ChangeCollector) CollectCommit(ctx context.Context, commitHash string) models.ChangeSet {
	return c.collectDiffSummary(ctx, commitHash+"^", commitHash, commitHash)
}

// CollectRange arma el ChangeSet entre dos refs
func (c *ChangeCollector) CollectRange(ctx context.Context, baseRef, headRef string) models.ChangeSet {
	return c.collectDiffSummary(ctx, baseRef, headRef, "")
}

func (c *ChangeCollector) collectDiffSummary(ctx context.Context, base, head, commitOverride string) models.ChangeSet {
	changeSet := models.ChangeSet{
		Changes:    []models.ChangeRecord{},
		BranchInfo: c.resolveBranchInfo(ctx, commitOverride),
	}

	output, err := c.runGit(ctx, "diff", "--numstat", base, head)
	if err != nil {
		logger.Warn(ctx, "no se pudo obtener el resumen del diff", "base", base, "head", head)
		return changeSet
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}

		path := parts[2]
		if ShouldIgnoreFile(path) {
			continue
		}

		record := models.ChangeRecord{
			Status:   classifyNumstat(parts[0], parts[1]),
			FilePath: path,
		}

		diff, err := c.runGit(ctx, "diff", base, head, "--", path)
		if err != nil {
			logger.Debug(ctx, "no se pudo obtener el diff del archivo", "path", path)
		} else {
			record.Diff = diff
		}

		changeSet.Changes = append(changeSet.Changes, record)
	}

	return changeSet
}

// classifyNumstat clasifica por contadores de inserciones/borrados. Los
// archivos binarios reportan "-" y cuentan como modificados.
func classifyNumstat(insertionsField, deletionsField string) models.ChangeStatus {
	insertions, errIns := strconv.Atoi(insertionsField)
	deletions, errDel := strconv.Atoi(deletionsField)
	if errIns != nil || errDel != nil {
		return models.StatusModified
	}

	switch {
	case insertions > 0 && deletions == 0:
		return models.StatusAdded
	case deletions > 0 && insertions == 0:
		return models.StatusDeleted
	default:
		return models.StatusModified
	}
}

// resolveBranchInfo resuelve rama y commit. Las variables de CI tienen
// prioridad sobre el estado local; ante falla total cae a main/unknown.
func (c *ChangeCollector) resolveBranchInfo(ctx context.Context, commitOverride string) models.BranchInfo {
	info := models.BranchInfo{Branch: "main", CommitHash: "unknown"}

	if headRef := os.Getenv("GITHUB_HEAD_REF"); headRef != "" {
		info.Branch = headRef
	} else if refName := os.Getenv("GITHUB_REF_NAME"); refName != "" {
		info.Branch = regex.RefsHeadsPrefix.ReplaceAllString(refName, "")
	} else if branch, err := c.runGit(ctx, "branch", "--show-current"); err == nil && strings.TrimSpace(branch) != "" {
		info.Branch = strings.TrimSpace(branch)
	}

	if commitOverride != "" {
		info.CommitHash = commitOverride
		return info
	}

	if hash, err := c.runGit(ctx, "rev-parse", "HEAD"); err == nil && strings.TrimSpace(hash) != "" {
		info.CommitHash = strings.TrimSpace(hash)
	}

	return info
}

// CurrentBranch resuelve la rama actual con la misma precedencia de CI que
// usa la colección de cambios
func (c *ChangeCollector) CurrentBranch(ctx context.Context) string {
	return c.resolveBranchInfo(ctx, "").Branch
}

// RepoName resuelve owner/repo desde el remoto origin; sin remoto o con un
// host desconocido cae al nombre del directorio.
func (c *ChangeCollector) RepoName(ctx context.Context) string {
	output, err := c.runGit(ctx, "remote", "get-url", "origin")
	if err == nil {
		url := strings.TrimSpace(output)

		var matches []string
		if regex.SSHRepo.MatchString(url) {
			matches = regex.SSHRepo.FindStringSubmatch(url)
		} else if regex.HTTPSRepo.MatchString(url) {
			matches = regex.HTTPSRepo.FindStringSubmatch(url)
		}

		if len(matches) >= 4 {
			return matches[2] + "/" + strings.TrimSuffix(matches[3], ".git")
		}
	}

	absPath, err := filepath.Abs(c.repoPath)
	if err != nil {
		return filepath.Base(c.repoPath)
	}
	return filepath.Base(absPath)
}
