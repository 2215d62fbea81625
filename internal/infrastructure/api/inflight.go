package api

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// inflightCall es el resultado compartido de una request en curso
type inflightCall struct {
	done chan struct{}
	body []byte
	err  error
}

// inflightRegistry colapsa llamadas idénticas concurrentes en una sola
// request física. La clave es el fingerprint estable método+url+body; la
// entrada se libera al completarse la llamada.
type inflightRegistry struct {
	mu    sync.Mutex
	calls map[string]*inflightCall
}

func newInflightRegistry() *inflightRegistry {
	return &inflightRegistry{calls: make(map[string]*inflightCall)}
}

// Fingerprint genera la clave estable de una request
func Fingerprint(method, url string, body []byte) string {
	hash := sha256.New()
	hash.Write([]byte(method))
	hash.Write([]byte{0})
	hash.Write([]byte(url))
	hash.Write([]byte{0})
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}

// begin registra una llamada o retorna la existente. El segundo valor es true
// cuando esta goroutine es la dueña y debe ejecutar la request.
func (r *inflightRegistry) begin(key string) (*inflightCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if call, ok := r.calls[key]; ok {
		return call, false
	}

	call := &inflightCall{done: make(chan struct{})}
	r.calls[key] = call
	return call, true
}

// finish publica el resultado y libera la entrada
func (r *inflightRegistry) finish(key string, call *inflightCall, body []byte, err error) {
	call.body = body
	call.err = err

	r.mu.Lock()
	delete(r.calls, key)
	r.mu.Unlock()

	close(call.done)
}
