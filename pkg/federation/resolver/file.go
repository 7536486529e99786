package resolver

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"stratus-hq/federation/pkg/federation/subcluster"
)

// FileResolver resolves nodes and racks from a machine list file.
//
// The file has one mapping per line in the form:
//
//	node,rack,subcluster
//
// Blank lines and lines starting with '#' are ignored. The rack field may
// be empty ("node,,subcluster") for nodes without rack information.
//
// FileResolver is safe for concurrent use; Load atomically replaces the
// mapping, so readers never observe a partially loaded file.
type FileResolver struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	nodes  map[string]subcluster.ID
	racks  map[string]subcluster.ID
	loaded bool
}

// NewFileResolver creates a resolver for the given machine list file.
// The file is not read until Load is called.
func NewFileResolver(path string) *FileResolver {
	return &FileResolver{
		path:   path,
		logger: slog.Default().With("component", "federation.resolver"),
		nodes:  make(map[string]subcluster.ID),
		racks:  make(map[string]subcluster.ID),
	}
}

// Load reads the machine list file and atomically replaces the mapping.
func (r *FileResolver) Load() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("failed to open machine list %q: %w", r.path, err)
	}
	defer f.Close()

	nodes := make(map[string]subcluster.ID)
	racks := make(map[string]subcluster.ID)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return fmt.Errorf("machine list %q line %d: expected node,rack,subcluster, got %q", r.path, lineNo, line)
		}

		node := strings.TrimSpace(fields[0])
		rack := strings.TrimSpace(fields[1])
		sc := subcluster.ID(strings.TrimSpace(fields[2]))
		if node == "" || sc.IsEmpty() {
			return fmt.Errorf("machine list %q line %d: node and subcluster must be non-empty", r.path, lineNo)
		}

		nodes[node] = sc
		if rack != "" {
			racks[rack] = sc
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read machine list %q: %w", r.path, err)
	}

	r.mu.Lock()
	r.nodes = nodes
	r.racks = racks
	r.loaded = true
	r.mu.Unlock()

	r.logger.Info("machine list loaded",
		"path", r.path,
		"nodes", len(nodes),
		"racks", len(racks),
	)
	return nil
}

// SubClusterForNode returns the sub-cluster that owns the given node.
func (r *FileResolver) SubClusterForNode(node string) (subcluster.ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sc, ok := r.nodes[node]
	if !ok {
		return "", fmt.Errorf("node %q: %w", node, ErrNodeNotFound)
	}
	return sc, nil
}

// SubClusterForRack returns the sub-cluster that owns the given rack.
func (r *FileResolver) SubClusterForRack(rack string) (subcluster.ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sc, ok := r.racks[rack]
	if !ok {
		return "", fmt.Errorf("rack %q: %w", rack, ErrRackNotFound)
	}
	return sc, nil
}

// SubClusters returns the distinct sub-clusters present in the mapping,
// sorted by identifier.
func (r *FileResolver) SubClusters() []subcluster.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[subcluster.ID]struct{})
	for _, sc := range r.nodes {
		seen[sc] = struct{}{}
	}
	for _, sc := range r.racks {
		seen[sc] = struct{}{}
	}

	ids := make([]subcluster.ID, 0, len(seen))
	for sc := range seen {
		ids = append(ids, sc)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
