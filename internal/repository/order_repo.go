package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/models"
)

var (
	// ErrOrderNotFound indicates the order directory or its record is absent.
	ErrOrderNotFound = errors.New("order not found")
	// ErrRecordCorrupt indicates an existing data.json is not valid JSON.
	ErrRecordCorrupt = errors.New("order record corrupt")
	// ErrNoMatch indicates no directory satisfied a fuzzy name lookup.
	ErrNoMatch = errors.New("no matching orders")
	// ErrMalformedDirectoryName indicates a matched directory does not encode
	// a business key in the expected <name>_INV-<number> form.
	ErrMalformedDirectoryName = errors.New("malformed order directory name")
)

// OrderRepository owns the directory-per-order tree and each order's JSON
// record. Keys are directory names derived from the business key via
// ResolveKey.
type OrderRepository interface {
	ResolveKey(headstoneName, invoiceNo string) string
	OrderDir(key string) string
	EnsureOrderDir(key string) (string, error)
	EnsureStageDir(key, stagePath string) (string, error)
	LoadRecord(key string) (models.OrderRecord, error)
	MergeAndSave(key string, patch map[string]string, deposit *models.Deposit) (models.OrderRecord, error)
	SearchByName(query string) ([]models.OrderRef, error)
	FindByInvoiceNo(invoiceNo string) (string, error)
}

type fsOrderRepository struct {
	root   string
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrderRepository constructs a filesystem-backed order repository rooted
// at the given orders directory.
func NewOrderRepository(root string, logger zerolog.Logger) OrderRepository {
	return &fsOrderRepository{
		root:   root,
		logger: logger.With().Str("component", "order_repository").Logger(),
		locks:  map[string]*sync.Mutex{},
	}
}

// keyLock serialises record writes per order key so two concurrent stage
// submissions for the same order cannot lose an update.
func (r *fsOrderRepository) keyLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}

func (r *fsOrderRepository) ResolveKey(headstoneName, invoiceNo string) string {
	sanitized := strings.Map(func(c rune) rune {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			return c
		}
		return '_'
	}, headstoneName)
	return sanitized + "_" + invoiceNo
}

func (r *fsOrderRepository) OrderDir(key string) string {
	return filepath.Join(r.root, key)
}

func (r *fsOrderRepository) EnsureOrderDir(key string) (string, error) {
	dir := r.OrderDir(key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create order dir: %w", err)
	}
	return dir, nil
}

func (r *fsOrderRepository) EnsureStageDir(key, stagePath string) (string, error) {
	dir := filepath.Join(r.OrderDir(key), filepath.FromSlash(stagePath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create stage dir %q: %w", stagePath, err)
	}
	return dir, nil
}

func (r *fsOrderRepository) LoadRecord(key string) (models.OrderRecord, error) {
	return r.readRecord(filepath.Join(r.OrderDir(key), models.RecordFileName))
}

func (r *fsOrderRepository) readRecord(path string) (models.OrderRecord, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return models.OrderRecord{}, ErrOrderNotFound
	}
	if err != nil {
		return models.OrderRecord{}, fmt.Errorf("read record: %w", err)
	}

	var record models.OrderRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.OrderRecord{}, fmt.Errorf("%w: %v", ErrRecordCorrupt, err)
	}
	if record.Data == nil {
		record.Data = map[string]string{}
	}
	return record, nil
}

func (r *fsOrderRepository) MergeAndSave(key string, patch map[string]string, deposit *models.Deposit) (models.OrderRecord, error) {
	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	if _, err := r.EnsureOrderDir(key); err != nil {
		return models.OrderRecord{}, err
	}

	record, err := r.LoadRecord(key)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		record = models.NewOrderRecord()
	case err != nil:
		// A corrupt record must surface, never be silently reset.
		return models.OrderRecord{}, err
	}

	for field, value := range patch {
		record.Data[field] = value
	}
	if deposit != nil && deposit.DepositAmount != "" {
		record.Deposits = append(record.Deposits, *deposit)
	}

	if err := r.writeRecord(key, record); err != nil {
		return models.OrderRecord{}, err
	}
	return record, nil
}

// writeRecord writes to a temp file in the order directory and renames it
// over data.json, so a crashed write never leaves a truncated record.
func (r *fsOrderRepository) writeRecord(key string, record models.OrderRecord) error {
	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	dir := r.OrderDir(key)
	tmp, err := os.CreateTemp(dir, models.RecordFileName+".*")
	if err != nil {
		return fmt.Errorf("stage record: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("stage record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("stage record: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, models.RecordFileName)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

func (r *fsOrderRepository) listOrderDirs() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("list orders root: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// SearchByName resolves orders whose directory name contains both an invoice
// marker and the query, case-insensitively with underscores read as spaces.
// Matches are ordered by longest common prefix with the query, then
// lexicographically, so overlapping names resolve deterministically.
func (r *fsOrderRepository) SearchByName(query string) ([]models.OrderRef, error) {
	names, err := r.listOrderDirs()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var matched []string
	for _, name := range names {
		normalized := strings.ReplaceAll(strings.ToLower(name), "_", " ")
		if strings.Contains(normalized, "inv") && strings.Contains(normalized, needle) {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNoMatch
	}

	refs := make([]models.OrderRef, 0, len(matched))
	for _, name := range matched {
		ref, err := parseDirectoryName(name)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	sort.SliceStable(refs, func(i, j int) bool {
		pi := commonPrefixLen(strings.ToLower(refs[i].HeadstoneName), needle)
		pj := commonPrefixLen(strings.ToLower(refs[j].HeadstoneName), needle)
		if pi != pj {
			return pi > pj
		}
		return refs[i].HeadstoneName < refs[j].HeadstoneName
	})
	return refs, nil
}

// parseDirectoryName decodes <name>_INV-<number> back into a business key.
// It is the inverse of ResolveKey for invoice numbers of that form.
func parseDirectoryName(name string) (models.OrderRef, error) {
	namePart, invoicePart, ok := strings.Cut(name, "INV")
	if !ok {
		return models.OrderRef{}, fmt.Errorf("%q: %w", name, ErrMalformedDirectoryName)
	}
	_, number, ok := strings.Cut(invoicePart, "-")
	if !ok || number == "" {
		return models.OrderRef{}, fmt.Errorf("%q: %w", name, ErrMalformedDirectoryName)
	}

	headstone := strings.TrimSpace(strings.ReplaceAll(namePart, "_", " "))
	return models.OrderRef{HeadstoneName: headstone, InvoiceNo: number}, nil
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// FindByInvoiceNo returns the directory key for an invoice number. A
// directory whose parsed invoice number equals the query exactly wins over a
// plain substring match; ties resolve to the lexicographically first name so
// lookups are stable regardless of filesystem listing order.
func (r *fsOrderRepository) FindByInvoiceNo(invoiceNo string) (string, error) {
	names, err := r.listOrderDirs()
	if err != nil {
		return "", err
	}
	sort.Strings(names)

	for _, name := range names {
		if ref, err := parseDirectoryName(name); err == nil && ref.InvoiceNo == invoiceNo {
			return name, nil
		}
	}
	for _, name := range names {
		if strings.Contains(name, invoiceNo) {
			return name, nil
		}
	}
	return "", ErrOrderNotFound
}
