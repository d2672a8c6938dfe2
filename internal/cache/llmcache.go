package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// LLMCache keeps recognizer replies on disk so re-running on the same
// document does not call the model again. Each reply lives in
// <Dir>/<KeyFrom(model, prompt, document)>.json as an Entry.
type LLMCache struct {
	Dir string
	// StrictPerms, when true, enforces 0700 on the cache directory and 0600
	// on entries.
	StrictPerms bool
}

// Entry is one cached recognizer reply. Entities holds the filtered span list
// exactly as the recognizer returned it.
type Entry struct {
	Model    string          `json:"model"`
	SavedAt  time.Time       `json:"saved_at"`
	Entities json.RawMessage `json:"entities"`
}

// KeyFrom digests the three inputs that determine a reply: the model, the
// system prompt (which carries the entity label) and the document text.
// A NUL separates the parts so that shifting text between them changes the key.
func KeyFrom(model, prompt, document string) string {
	h := sha256.New()
	for _, part := range []string{model, prompt, document} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *LLMCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if c.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(c.Dir, perm); err != nil {
		return err
	}
	if c.StrictPerms {
		if info, err := os.Stat(c.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(c.Dir, 0o700)
		}
	}
	return nil
}

func (c *LLMCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get loads the entry for key. A missing or unreadable entry is a miss, not
// an error; only an unusable cache directory is reported.
func (c *LLMCache) Get(_ context.Context, key string) (Entry, bool, error) {
	if err := c.ensureDir(); err != nil {
		return Entry{}, false, err
	}
	p := c.pathFor(key)
	b, err := os.ReadFile(p)
	if err != nil {
		return Entry{}, false, nil
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil || len(e.Entities) == 0 {
		return Entry{}, false, nil
	}
	// Touch mtime so age-based purges keep entries that are still in use.
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return e, true, nil
}

// Save writes e under key, stamping SavedAt when it is zero.
func (c *LLMCache) Save(_ context.Context, key string, e Entry) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if c.StrictPerms {
		mode = 0o600
	}
	return os.WriteFile(c.pathFor(key), b, mode)
}
