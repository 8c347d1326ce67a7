package cache

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	entryExt = ".pcm"

	// Entries smaller than this are stored uncompressed.
	compressThreshold = 1024

	maxKeyLen = 4096
)

// entryMagic starts every entry file.
var entryMagic = [4]byte{'C', 'L', 'S', '1'}

const flagCompressed byte = 1 << 0

// DiskStore is the persistent tier of the sound cache. Every entry lives in
// its own file named after the SHA-256 of its key. The file starts with a
// small header holding the key, so the directory itself is the index and
// several processes can share it: each write replaces one file atomically
// and never touches another key.
//
// Entries are kept until deleted explicitly: there is no TTL and no capacity
// eviction.
type DiskStore struct {
	basePath string

	// Compression
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu     sync.Mutex
	closed bool

	stats Stats
}

// NewDiskStore opens (creating if necessary) a disk store rooted at basePath.
// compressionLevel 0 disables zstd for new entries; compressed entries
// written earlier can still be read.
func NewDiskStore(basePath string, compressionLevel int) (*DiskStore, error) {
	if basePath == "" {
		return nil, errors.New("cache directory is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	ds := &DiskStore{basePath: basePath}

	var err error
	if compressionLevel > 0 {
		ds.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
	}
	ds.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return ds, nil
}

// Path returns the directory backing the store.
func (ds *DiskStore) Path() string {
	return ds.basePath
}

// Get retrieves a value. A missing key is (nil, false, nil); an unreadable
// entry is removed and reported as an error.
func (ds *DiskStore) Get(key string) ([]byte, bool, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return nil, false, ErrClosed
	}

	path := ds.filePath(fileNameFor(key))
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		ds.stats.Misses++
		return nil, false, nil
	}
	if err != nil {
		ds.stats.Misses++
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}

	storedKey, flags, body, err := parseEntry(raw)
	if err != nil {
		_ = os.Remove(path)
		ds.stats.Misses++
		return nil, false, fmt.Errorf("%w: %q: %v", ErrCacheCorrupted, key, err)
	}
	if storedKey != key {
		ds.stats.Misses++
		return nil, false, nil
	}

	if flags&flagCompressed != 0 {
		body, err = ds.decoder.DecodeAll(body, nil)
		if err != nil {
			_ = os.Remove(path)
			ds.stats.Misses++
			return nil, false, fmt.Errorf("%w: %q: %v", ErrCacheCorrupted, key, err)
		}
	}

	ds.stats.Hits++
	ds.stats.LastAccess = time.Now()
	return body, true, nil
}

// Put stores a value, replacing any existing entry for the key.
func (ds *DiskStore) Put(key string, value []byte) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return ErrClosed
	}
	if len(key) > maxKeyLen {
		return fmt.Errorf("key is longer than %d bytes", maxKeyLen)
	}

	body := value
	var flags byte
	if ds.encoder != nil && len(value) > compressThreshold {
		// Only use compression if it actually reduces size
		if c := ds.encoder.EncodeAll(value, nil); len(c) < len(value) {
			body = c
			flags |= flagCompressed
		}
	}

	name := fileNameFor(key)
	if err := writeFileAtomic(ds.basePath, name, encodeEntry(key, flags, body)); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Delete removes an entry.
func (ds *DiskStore) Delete(key string) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return ErrClosed
	}

	err := os.Remove(ds.filePath(fileNameFor(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Clear removes every entry.
func (ds *DiskStore) Clear() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return ErrClosed
	}

	files, err := ds.entryFiles()
	if err != nil {
		return err
	}
	var errs []error
	for _, f := range files {
		if err := os.Remove(ds.filePath(f.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Keys returns the stored keys in lexical order. Unreadable entries are
// skipped.
func (ds *DiskStore) Keys() []string {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	files, err := ds.entryFiles()
	if err != nil {
		return nil
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		key, err := readEntryKey(ds.filePath(f.Name()))
		if err != nil || fileNameFor(key) != f.Name() {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns cache statistics. Size and ItemCount are read from the
// directory, so they include entries written by other processes.
func (ds *DiskStore) Stats() Stats {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	stats := ds.stats
	files, _ := ds.entryFiles()
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			continue
		}
		stats.ItemCount++
		stats.Size += info.Size()
		if info.ModTime().After(stats.LastAccess) {
			stats.LastAccess = info.ModTime()
		}
	}
	stats.computeHitRate()

	return stats
}

// Close releases the zstd codecs.
func (ds *DiskStore) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return nil
	}
	ds.closed = true

	if ds.encoder != nil {
		_ = ds.encoder.Close()
	}
	ds.decoder.Close()
	return nil
}

func (ds *DiskStore) filePath(name string) string {
	return filepath.Join(ds.basePath, name)
}

func (ds *DiskStore) entryFiles() ([]os.DirEntry, error) {
	all, err := os.ReadDir(ds.basePath)
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}
	files := all[:0]
	for _, e := range all {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), entryExt) {
			files = append(files, e)
		}
	}
	return files, nil
}

func fileNameFor(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16]) + entryExt
}

// Entry layout: magic, flags, uvarint key length, key, body.
func encodeEntry(key string, flags byte, body []byte) []byte {
	buf := make([]byte, 0, len(entryMagic)+1+binary.MaxVarintLen64+len(key)+len(body))
	buf = append(buf, entryMagic[:]...)
	buf = append(buf, flags)
	buf = binary.AppendUvarint(buf, uint64(len(key)))
	buf = append(buf, key...)
	return append(buf, body...)
}

func parseEntry(raw []byte) (key string, flags byte, body []byte, err error) {
	r := bytes.NewReader(raw)
	key, flags, err = readHeader(r)
	if err != nil {
		return "", 0, nil, err
	}
	return key, flags, raw[len(raw)-r.Len():], nil
}

func readEntryKey(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	key, _, err := readHeader(bufio.NewReader(f))
	return key, err
}

type headerReader interface {
	io.Reader
	io.ByteReader
}

func readHeader(r headerReader) (string, byte, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || magic != entryMagic {
		return "", 0, errors.New("bad entry header")
	}
	flags, err := r.ReadByte()
	if err != nil {
		return "", 0, errors.New("bad entry header")
	}
	n, err := binary.ReadUvarint(r)
	if err != nil || n > maxKeyLen {
		return "", 0, errors.New("bad entry key length")
	}
	key := make([]byte, n)
	if _, err := io.ReadFull(r, key); err != nil {
		return "", 0, errors.New("truncated entry key")
	}
	return string(key), flags, nil
}

// writeFileAtomic writes to a temp file in dir, then renames it over name.
// Temp names are unique so concurrent writers never share one.
func writeFileAtomic(dir, name string, data []byte) error {
	file, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := file.Name()

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		_ = os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, filepath.Join(dir, name))
}
