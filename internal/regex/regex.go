package regex

import "regexp"

var (
	// Git and Repo patterns
	SSHRepo   = regexp.MustCompile(`git@([^:]+):([^/]+)/(.+)\.git$`)
	HTTPSRepo = regexp.MustCompile(`https://([^/]+)/([^/]+)/(.+?)(?:\.git)?$`)

	// CI ref normalization
	RefsHeadsPrefix = regexp.MustCompile(`^refs/heads/`)

	// Localhost URL patterns
	LocalhostURL  = regexp.MustCompile(`^https?://(?:localhost|127\.0\.0\.1|0\.0\.0\.0)(?::(\d+))?`)
	LocalhostPort = regexp.MustCompile(`:(\d+)`)

	// Heuristic source scanning (best-effort, not a parser)
	ImportStatement = regexp.MustCompile(`(?m)^\s*import\s+(?:[\w*{}\s,]+\s+from\s+)?['"]([^'"]+)['"]`)
	RequireCall     = regexp.MustCompile(`require\(['"]([^'"]+)['"]\)`)
	ExportStatement = regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var)\s+(\w+)`)
	RoutePath       = regexp.MustCompile(`(?:path|route)\s*[:=]\s*['"]([^'"]+)['"]`)

	// Classifier keyword patterns
	AuthKeywords    = regexp.MustCompile(`(?i)(auth|login|signin|signup|session|oauth)`)
	FormKeywords    = regexp.MustCompile(`(?i)(form|input|validation|submit)`)
	RoutingKeywords = regexp.MustCompile(`(?i)(router|routes|navigation)`)
	APIKeywords     = regexp.MustCompile(`(?i)(api|service|client|fetch|request)`)

	// Artifact naming
	UnsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
)
