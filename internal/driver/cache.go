package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sortlint/internal/diag"
	"sortlint/internal/source"
)

// Bump when the payload format changes; stale entries then read as misses.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-file diagnostics keyed by content hash and rule
// configuration. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Spans are cached as byte offsets only; the FileID is rebound to the
// current FileSet on every hit.
type cachedSpan struct {
	Start uint32
	End   uint32
}

type cachedNote struct {
	Span cachedSpan
	Msg  string
}

type cachedFix struct {
	ID     string
	Title  string
	Action uint8
	Anchor cachedSpan
	Arg    string
}

type cachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Primary  cachedSpan
	Notes    []cachedNote
	Fixes    []cachedFix
}

type filePayload struct {
	Schema      uint16
	Diagnostics []cachedDiagnostic
}

// OpenDiskCache initializes the disk cache under XDG_CACHE_HOME (or
// ~/.cache) in a subdirectory named after the app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes the disk cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey folds the file content hash with everything that can change the
// produced diagnostics: payload schema, rule set, whitelist extensions.
func cacheKey(file *source.File, opts Options) [32]byte {
	h := sha256.New()
	h.Write([]byte{byte(diskCacheSchemaVersion), byte(diskCacheSchemaVersion >> 8)})
	h.Write(file.Hash[:])
	h.Write([]byte(opts.Rules.String()))
	for _, t := range opts.ExtraTypes {
		h.Write([]byte{0})
		h.Write([]byte(t))
	}
	var key [32]byte
	h.Sum(key[:0])
	return key
}

func (c *DiskCache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

// Probe looks up cached diagnostics for the file under the current rule
// configuration. Virtual files, cache misses and undecodable entries all
// read as a miss.
func (c *DiskCache) Probe(file *source.File, opts Options) (*diag.Bag, bool) {
	if c == nil || file.Flags&source.FileVirtual != 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(cacheKey(file, opts)))
	if err != nil {
		return nil, false
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var payload filePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}

	bag := diag.NewBag(max(opts.MaxDiagnostics, len(payload.Diagnostics)))
	for _, cd := range payload.Diagnostics {
		bag.Add(restoreDiagnostic(cd, file.ID))
	}
	return bag, true
}

// Store writes the file's diagnostics to the cache. Failures are silent:
// the cache is an accelerator, never a correctness dependency.
func (c *DiskCache) Store(file *source.File, opts Options, bag *diag.Bag) {
	if c == nil || file.Flags&source.FileVirtual != 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := filePayload{Schema: diskCacheSchemaVersion}
	for _, d := range bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, cacheDiagnostic(d))
	}

	p := c.pathFor(cacheKey(file, opts))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return
	}
	if err := msgpack.NewEncoder(tmp).Encode(&payload); err != nil {
		tmp.Close()           //nolint:errcheck // already failing
		os.Remove(tmp.Name()) //nolint:errcheck
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return
	}
	// Atomic swap so concurrent probes never see a torn entry.
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
	}
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func cacheDiagnostic(d diag.Diagnostic) cachedDiagnostic {
	cd := cachedDiagnostic{
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Message:  d.Message,
		Primary:  cachedSpan{Start: d.Primary.Start, End: d.Primary.End},
	}
	for _, n := range d.Notes {
		cd.Notes = append(cd.Notes, cachedNote{
			Span: cachedSpan{Start: n.Span.Start, End: n.Span.End},
			Msg:  n.Msg,
		})
	}
	for _, f := range d.Fixes {
		cd.Fixes = append(cd.Fixes, cachedFix{
			ID:     f.ID,
			Title:  f.Title,
			Action: uint8(f.Action),
			Anchor: cachedSpan{Start: f.Anchor.Start, End: f.Anchor.End},
			Arg:    f.Arg,
		})
	}
	return cd
}

func restoreDiagnostic(cd cachedDiagnostic, fileID source.FileID) diag.Diagnostic {
	d := diag.Diagnostic{
		Severity: diag.Severity(cd.Severity),
		Code:     diag.Code(cd.Code),
		Message:  cd.Message,
		Primary:  source.Span{File: fileID, Start: cd.Primary.Start, End: cd.Primary.End},
	}
	for _, n := range cd.Notes {
		d.Notes = append(d.Notes, diag.Note{
			Span: source.Span{File: fileID, Start: n.Span.Start, End: n.Span.End},
			Msg:  n.Msg,
		})
	}
	for _, f := range cd.Fixes {
		d.Fixes = append(d.Fixes, diag.Fix{
			ID:     f.ID,
			Title:  f.Title,
			Action: diag.ActionKind(f.Action),
			Anchor: source.Span{File: fileID, Start: f.Anchor.Start, End: f.Anchor.End},
			Arg:    f.Arg,
		})
	}
	return d
}
