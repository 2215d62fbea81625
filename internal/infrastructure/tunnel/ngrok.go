package tunnel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/httpclient"
	"github.com/Tomas-vilte/MateTest/internal/logger"
)

var _ ports.TunnelProvider = (*NgrokProvider)(nil)

const defaultAgentURL = "http://127.0.0.1:4040"

// NgrokProvider habla con la API local del agente de ngrok. El agente tiene
// que estar corriendo; un connection refused se reporta tal cual para que el
// Manager lo categorice.
type NgrokProvider struct {
	agentURL string
	client   httpclient.HTTPClient

	configuredToken string
}

func NewNgrokProvider(agentURL string, client httpclient.HTTPClient) *NgrokProvider {
	if agentURL == "" {
		agentURL = defaultAgentURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NgrokProvider{agentURL: agentURL, client: client}
}

type (
	agentTunnelRequest struct {
		Name     string `json:"name"`
		Addr     string `json:"addr"`
		Proto    string `json:"proto"`
		Hostname string `json:"hostname,omitempty"`
	}

	agentTunnelResponse struct {
		Name      string `json:"name"`
		PublicURL string `json:"public_url"`
	}

	agentTunnelList struct {
		Tunnels []agentTunnelResponse `json:"tunnels"`
	}
)

// Connect crea un túnel http hacia el puerto local y retorna la URL pública
func (p *NgrokProvider) Connect(ctx context.Context, opts ports.TunnelOptions) (string, error) {
	if err := p.ensureAuthToken(ctx, opts.AuthToken); err != nil {
		return "", err
	}

	payload, err := json.Marshal(agentTunnelRequest{
		Name:     opts.Name,
		Addr:     fmt.Sprintf("%d", opts.Port),
		Proto:    "http",
		Hostname: opts.Domain,
	})
	if err != nil {
		return "", fmt.Errorf("error encoding tunnel request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.agentURL+"/api/tunnels", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error contacting ngrok agent: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug(ctx, "error closing agent response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading agent response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ngrok agent rejected tunnel: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var tunnel agentTunnelResponse
	if err := json.Unmarshal(body, &tunnel); err != nil {
		return "", fmt.Errorf("error decoding agent response: %w", err)
	}
	if tunnel.PublicURL == "" {
		return "", fmt.Errorf("ngrok agent returned no public URL")
	}

	return tunnel.PublicURL, nil
}

// ensureAuthToken configura el authtoken del agente una sola vez por proceso
func (p *NgrokProvider) ensureAuthToken(ctx context.Context, token string) error {
	if token == "" || token == p.configuredToken {
		return nil
	}

	cmd := exec.CommandContext(ctx, "ngrok", "config", "add-authtoken", token)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("error configuring ngrok authtoken: %s", strings.TrimSpace(string(output)))
	}

	p.configuredToken = token
	return nil
}

// Disconnect borra un túnel por nombre o por URL pública
func (p *NgrokProvider) Disconnect(ctx context.Context, tunnel string) error {
	name := tunnel
	if strings.Contains(tunnel, "://") {
		resolved, err := p.findByPublicURL(ctx, tunnel)
		if err != nil {
			return err
		}
		name = resolved
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.agentURL+"/api/tunnels/"+name, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("error contacting ngrok agent: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("tunnel %q not found", name)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ngrok agent rejected disconnect: %s", resp.Status)
	}
	return nil
}

func (p *NgrokProvider) findByPublicURL(ctx context.Context, publicURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.agentURL+"/api/tunnels", nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error contacting ngrok agent: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var list agentTunnelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("error decoding tunnel list: %w", err)
	}

	for _, tunnel := range list.Tunnels {
		if tunnel.PublicURL == publicURL {
			return tunnel.Name, nil
		}
	}
	return "", fmt.Errorf("no tunnel registered for %s", publicURL)
}

// Kill detiene el agente entero
func (p *NgrokProvider) Kill(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "ngrok", "service", "stop")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("error stopping ngrok agent: %s", strings.TrimSpace(string(output)))
	}
	return nil
}
