package memory

import (
	"context"
	"fmt"
	"sort"

	"cybercase-service/internal/domain"
)

// CaseRepository serves a seeded case tree from memory. The dataset is
// immutable after construction, so reads need no locking.
type CaseRepository struct {
	nodes    map[int64]domain.FileNode
	ordered  []domain.FileNode
	metadata map[int64]domain.HiddenMetadata
}

func NewCaseRepository(nodes []domain.FileNode, metadata map[int64]domain.HiddenMetadata) *CaseRepository {
	byID := make(map[int64]domain.FileNode, len(nodes))
	ordered := append([]domain.FileNode(nil), nodes...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return &CaseRepository{nodes: byID, ordered: ordered, metadata: metadata}
}

func (r *CaseRepository) Children(_ context.Context, parentID *int64, includeHidden bool) ([]domain.FileNode, error) {
	out := make([]domain.FileNode, 0, len(r.ordered))
	for _, n := range r.ordered {
		if !sameParent(n.ParentID, parentID) {
			continue
		}
		if n.IsHidden && !includeHidden {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *CaseRepository) Node(_ context.Context, id int64) (domain.FileNode, error) {
	node, ok := r.nodes[id]
	if !ok {
		return domain.FileNode{}, domain.ErrNotFound
	}
	return node, nil
}

func (r *CaseRepository) Metadata(_ context.Context, nodeID int64) (domain.HiddenMetadata, bool, error) {
	meta, ok := r.metadata[nodeID]
	return meta, ok, nil
}

// GroundTruth derives the case answers from the seeded flags and decodes the
// secret out of the metadata carrier.
func (r *CaseRepository) GroundTruth(_ context.Context) (domain.CaseTruth, error) {
	var truth domain.CaseTruth
	for _, n := range r.ordered {
		if n.IsMalware {
			truth.MalwareID = n.ID
		}
		if n.ContainsSensitive {
			truth.SensitiveID = n.ID
		}
	}
	for _, meta := range r.metadata {
		if meta["HiddenMessage"] != "true" {
			continue
		}
		secret, err := domain.DecodeSecret(meta["UserComment"])
		if err != nil {
			return domain.CaseTruth{}, fmt.Errorf("decode case secret: %w", err)
		}
		truth.Secret = secret
	}
	if truth.MalwareID == 0 || truth.SensitiveID == 0 {
		return domain.CaseTruth{}, fmt.Errorf("case seed has no ground truth: %w", domain.ErrNotFound)
	}
	return truth, nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
