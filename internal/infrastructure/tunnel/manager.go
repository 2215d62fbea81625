package tunnel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	apperrors "github.com/Tomas-vilte/MateTest/internal/errors"
	"github.com/Tomas-vilte/MateTest/internal/logger"
	"github.com/Tomas-vilte/MateTest/internal/regex"
)

const (
	// idleTimeout mantiene el túnel dentro del bloque horario de facturación
	// del proveedor
	idleTimeout = 55 * time.Minute

	connectAttempts = 3
	connectBackoff  = 2 * time.Second
)

// TunnelRecord es el estado de un túnel activo. Lo posee exclusivamente el
// Manager; cada touch renueva LastAccessedAt y reprograma la expiración.
type TunnelRecord struct {
	TunnelID       string
	Port           int
	OriginalURL    string
	PublicURL      string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// ProcessedURL es el resultado de ProcessURL
type ProcessedURL struct {
	URL         string
	TunnelID    string
	IsLocalhost bool
}

// Manager administra el ciclo de vida de los túneles: creación con
// reintentos, registro por id con búsqueda secundaria por puerto, y
// expiración automática por inactividad.
type Manager struct {
	provider ports.TunnelProvider
	domain   string

	mu      sync.Mutex
	records map[string]*TunnelRecord
	timers  map[string]*time.Timer
}

func NewManager(provider ports.TunnelProvider, domain string) *Manager {
	return &Manager{
		provider: provider,
		domain:   domain,
		records:  make(map[string]*TunnelRecord),
		timers:   make(map[string]*time.Timer),
	}
}

// ProcessURL resuelve la URL que ve el runner remoto. Las URLs que no son
// localhost pasan sin tocar. Para localhost reutiliza el túnel existente del
// puerto (renovando su expiración) o crea uno nuevo, lo que exige authToken.
func (m *Manager) ProcessURL(ctx context.Context, rawURL, authToken, explicitID string) (ProcessedURL, error) {
	if !regex.LocalhostURL.MatchString(rawURL) {
		return ProcessedURL{URL: rawURL, IsLocalhost: false}, nil
	}

	port, err := extractPort(rawURL)
	if err != nil {
		return ProcessedURL{}, apperrors.ErrTunnelPortMissing.WithError(err)
	}

	if record := m.touchByPort(port); record != nil {
		publicURL, err := rederiveURL(rawURL, record.PublicURL)
		if err != nil {
			return ProcessedURL{}, fmt.Errorf("error rebuilding public URL: %w", err)
		}
		return ProcessedURL{URL: publicURL, TunnelID: record.TunnelID, IsLocalhost: true}, nil
	}

	if authToken == "" {
		return ProcessedURL{}, apperrors.ErrTunnelTokenInvalid
	}

	record, err := m.createTunnel(ctx, port, rawURL, authToken, explicitID)
	if err != nil {
		return ProcessedURL{}, err
	}

	publicURL, err := rederiveURL(rawURL, record.PublicURL)
	if err != nil {
		return ProcessedURL{}, fmt.Errorf("error rebuilding public URL: %w", err)
	}

	return ProcessedURL{URL: publicURL, TunnelID: record.TunnelID, IsLocalhost: true}, nil
}

// touchByPort busca un túnel por puerto y, si existe, renueva su expiración
func (m *Manager) touchByPort(port int) *TunnelRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, record := range m.records {
		if record.Port == port {
			record.LastAccessedAt = time.Now()
			m.rescheduleExpiryLocked(record.TunnelID)
			return record
		}
	}
	return nil
}

// createTunnel conecta con reintentos acotados. Entre intentos desconecta
// proactivamente cualquier túnel viejo registrado bajo el mismo identificador.
func (m *Manager) createTunnel(ctx context.Context, port int, originalURL, authToken, explicitID string) (*TunnelRecord, error) {
	tunnelID := explicitID
	if tunnelID == "" {
		tunnelID = "matetest-" + uuid.NewString()[:8]
	}

	opts := ports.TunnelOptions{
		Port:      port,
		Domain:    m.domain,
		AuthToken: authToken,
		Name:      tunnelID,
	}

	var publicURL string
	var lastErr error
	for attempt := 0; attempt < connectAttempts; attempt++ {
		if attempt > 0 {
			if err := m.provider.Disconnect(ctx, tunnelID); err != nil {
				logger.Debug(ctx, "no había túnel viejo que desconectar", "error", err)
			}
			select {
			case <-time.After(connectBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		publicURL, lastErr = m.provider.Connect(ctx, opts)
		if lastErr == nil {
			break
		}
	}

	if lastErr != nil {
		return nil, classifyConnectError(lastErr)
	}

	now := time.Now()
	record := &TunnelRecord{
		TunnelID:       tunnelID,
		Port:           port,
		OriginalURL:    originalURL,
		PublicURL:      publicURL,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.mu.Lock()
	m.records[tunnelID] = record
	m.rescheduleExpiryLocked(tunnelID)
	m.mu.Unlock()

	logger.Info(ctx, "túnel creado", "port", port, "publicUrl", publicURL)
	return record, nil
}

// classifyConnectError envuelve las fallas de conexión en categorías
// accionables. El identificador del túnel no se incluye en el mensaje.
func classifyConnectError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return apperrors.ErrTunnelDaemonDown.WithError(err)
	case strings.Contains(msg, "authtoken") || strings.Contains(msg, "authentication"):
		return apperrors.ErrTunnelTokenInvalid.WithError(err)
	default:
		return apperrors.NewAppError(apperrors.TypeTunnel, "Failed to establish tunnel", err)
	}
}

// rescheduleExpiryLocked reprograma el timer de expiración por inactividad.
// Requiere m.mu tomado.
func (m *Manager) rescheduleExpiryLocked(tunnelID string) {
	if timer, ok := m.timers[tunnelID]; ok {
		timer.Stop()
	}
	m.timers[tunnelID] = time.AfterFunc(idleTimeout, func() {
		logger.Warn(context.Background(), "túnel expirado por inactividad", "port", m.portOf(tunnelID))
		_ = m.StopTunnel(context.Background(), tunnelID)
	})
}

func (m *Manager) portOf(tunnelID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record, ok := m.records[tunnelID]; ok {
		return record.Port
	}
	return 0
}

// Touch renueva la expiración de un túnel existente
func (m *Manager) Touch(tunnelID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[tunnelID]
	if !ok {
		return false
	}
	record.LastAccessedAt = time.Now()
	m.rescheduleExpiryLocked(tunnelID)
	return true
}

// Lookup retorna una copia del registro de un túnel
func (m *Manager) Lookup(tunnelID string) (TunnelRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[tunnelID]
	if !ok {
		return TunnelRecord{}, false
	}
	return *record, true
}

// StopTunnel cierra un túnel y elimina su registro. Detener un id
// desconocido es un no-op.
func (m *Manager) StopTunnel(ctx context.Context, tunnelID string) error {
	m.mu.Lock()
	record, ok := m.records[tunnelID]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.records, tunnelID)
	if timer, exists := m.timers[tunnelID]; exists {
		timer.Stop()
		delete(m.timers, tunnelID)
	}
	m.mu.Unlock()

	if err := m.provider.Disconnect(ctx, record.PublicURL); err != nil {
		logger.Warn(ctx, "error desconectando el túnel", "port", record.Port, "error", err)
		return err
	}
	return nil
}

// StopAllTunnels detiene todos los túneles, acumulando fallas individuales
// sin abortar el resto.
func (m *Manager) StopAllTunnels(ctx context.Context) error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := m.StopTunnel(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ActiveTunnels retorna la cantidad de túneles vivos
func (m *Manager) ActiveTunnels() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// extractPort saca el puerto de una URL localhost; sin puerto explícito
// asume el default del esquema
func extractPort(rawURL string) (int, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, err
	}

	if portStr := parsed.Port(); portStr != "" {
		return strconv.Atoi(portStr)
	}

	switch parsed.Scheme {
	case "http":
		return 80, nil
	case "https":
		return 443, nil
	}
	return 0, fmt.Errorf("no port in URL %q", rawURL)
}

// rederiveURL reemplaza esquema y host de la request nueva por los del túnel,
// preservando path, query y fragment
func rederiveURL(requestURL, publicURL string) (string, error) {
	request, err := url.Parse(requestURL)
	if err != nil {
		return "", err
	}
	public, err := url.Parse(publicURL)
	if err != nil {
		return "", err
	}

	request.Scheme = public.Scheme
	request.Host = public.Host
	return request.String(), nil
}
