package ports

import "context"

// TunnelOptions son los parámetros de conexión del driver de túneles
type TunnelOptions struct {
	Port      int
	Domain    string
	AuthToken string
	Name      string
}

// TunnelProvider es el driver opaco del proveedor de túneles (ngrok).
// Disconnect acepta el nombre del túnel o su URL pública.
type TunnelProvider interface {
	Connect(ctx context.Context, opts TunnelOptions) (string, error)
	Disconnect(ctx context.Context, tunnel string) error
	Kill(ctx context.Context) error
}
