package storetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/mail"
	"github.com/dcode-github/gharbari/backend/storage"
)

// Gateway is an in-memory storage.Gateway. Uploaded files get URLs of the
// form https://res.cloudinary.com/demo/image/upload/v1/<name>-<n>.jpg.
type Gateway struct {
	mu      sync.Mutex
	seq     int
	stored  map[string]bool
	Deleted []string

	// FailUploadOn makes the upload of the named file fail.
	FailUploadOn map[string]bool
	// FailDeleteOn makes the deletion of the given URL fail.
	FailDeleteOn map[string]bool
}

var _ storage.Gateway = (*Gateway)(nil)

func NewGateway() *Gateway {
	return &Gateway{
		stored:       map[string]bool{},
		FailUploadOn: map[string]bool{},
		FailDeleteOn: map[string]bool{},
	}
}

// URLFor is the URL the gateway would return for the n-th upload of name.
func URLFor(name string, n int) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v1/%s-%d.jpg", base, n)
}

// Seed marks urls as already stored remotely.
func (g *Gateway) Seed(urls ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range urls {
		g.stored[u] = true
	}
}

func (g *Gateway) Upload(_ context.Context, f storage.File) (string, error) {
	if f.Reader != nil {
		if _, err := io.Copy(io.Discard, f.Reader); err != nil {
			return "", errs.Upstream("Image upload failed", err)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailUploadOn[f.Name] {
		return "", errs.Upstream("Image upload failed", errors.New("injected upload failure"))
	}
	g.seq++
	url := URLFor(f.Name, g.seq)
	g.stored[url] = true
	return url, nil
}

func (g *Gateway) Delete(_ context.Context, url string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailDeleteOn[url] {
		return errs.Upstream("Cloudinary deletion failed", errors.New("injected delete failure"))
	}
	delete(g.stored, url)
	g.Deleted = append(g.Deleted, url)
	return nil
}

// Stored reports whether url is currently held by the gateway.
func (g *Gateway) Stored(url string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stored[url]
}

func (g *Gateway) DeletedURLs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.Deleted...)
}

// Mailer records sent messages.
type Mailer struct {
	mu   sync.Mutex
	sent []mail.Message
	Err  error
}

var _ mail.Sender = (*Mailer)(nil)

func (m *Mailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *Mailer) Sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}
