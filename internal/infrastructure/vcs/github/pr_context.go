package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// PullRequestsService es la porción de la API de GitHub que usamos
type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
}

// PRContext es el contexto de un pull request para enriquecer la submission
type PRContext struct {
	Number int
	Title  string
	Body   string
	Head   string
}

// PRContextProvider busca el PR asociado a una rama para enriquecer la
// descripción de submissions tipo pull_request.
type PRContextProvider struct {
	prService PullRequestsService
	owner     string
	repo      string
}

func NewPRContextProvider(repoName, token string) (*PRContextProvider, error) {
	parts := strings.SplitN(repoName, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("repository name %q is not owner/repo", repoName)
	}

	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &PRContextProvider{
		prService: client.PullRequests,
		owner:     parts[0],
		repo:      parts[1],
	}, nil
}

// ForBranch busca el PR abierto cuya head coincide con la rama dada.
// Retorna (nil, nil) cuando no hay PR abierto para la rama.
func (p *PRContextProvider) ForBranch(ctx context.Context, branch string) (*PRContext, error) {
	prs, _, err := p.prService.List(ctx, p.owner, p.repo, &github.PullRequestListOptions{
		State: "open",
		Head:  p.owner + ":" + branch,
	})
	if err != nil {
		return nil, fmt.Errorf("error al listar los PRs de %s/%s: %w", p.owner, p.repo, err)
	}

	if len(prs) == 0 {
		return nil, nil
	}

	pr := prs[0]
	return &PRContext{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		Head:   pr.GetHead().GetRef(),
	}, nil
}

// Get busca un PR puntual por número
func (p *PRContextProvider) Get(ctx context.Context, number int) (*PRContext, error) {
	pr, _, err := p.prService.Get(ctx, p.owner, p.repo, number)
	if err != nil {
		return nil, fmt.Errorf("error al obtener el PR %d de GitHub: %w", number, err)
	}
	if pr == nil {
		return nil, fmt.Errorf("PR %d no encontrado en GitHub", number)
	}

	return &PRContext{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		Head:   pr.GetHead().GetRef(),
	}, nil
}
