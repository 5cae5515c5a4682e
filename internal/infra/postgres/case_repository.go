package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cybercase-service/internal/domain"

	"github.com/uptrace/bun"
)

// CaseRepository reads the seeded case filesystem from Postgres.
type CaseRepository struct {
	db *bun.DB
}

func NewCaseRepository(db *bun.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Children(ctx context.Context, parentID *int64, includeHidden bool) ([]domain.FileNode, error) {
	var rows []fileRow
	q := r.db.NewSelect().Model(&rows).Order("name ASC")
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if !includeHidden {
		q = q.Where("is_hidden = FALSE")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select case files: %w", err)
	}
	nodes := make([]domain.FileNode, len(rows))
	for i, row := range rows {
		nodes[i] = row.toDomain()
	}
	return nodes, nil
}

func (r *CaseRepository) Node(ctx context.Context, id int64) (domain.FileNode, error) {
	var row fileRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FileNode{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.FileNode{}, fmt.Errorf("select case file: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CaseRepository) Metadata(ctx context.Context, nodeID int64) (domain.HiddenMetadata, bool, error) {
	var row metadataRow
	err := r.db.NewSelect().Model(&row).Where("node_id = ?", nodeID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select metadata: %w", err)
	}
	return domain.HiddenMetadata(row.Data), true, nil
}

func (r *CaseRepository) GroundTruth(ctx context.Context) (domain.CaseTruth, error) {
	var truth domain.CaseTruth

	var malware fileRow
	if err := r.db.NewSelect().Model(&malware).Where("is_malware = TRUE").Limit(1).Scan(ctx); err != nil {
		return domain.CaseTruth{}, fmt.Errorf("select malware node: %w", err)
	}
	truth.MalwareID = malware.ID

	var sensitive fileRow
	if err := r.db.NewSelect().Model(&sensitive).Where("contains_sensitive = TRUE").Limit(1).Scan(ctx); err != nil {
		return domain.CaseTruth{}, fmt.Errorf("select sensitive node: %w", err)
	}
	truth.SensitiveID = sensitive.ID

	var carrier metadataRow
	err := r.db.NewSelect().Model(&carrier).Where("data->>'HiddenMessage' = 'true'").Limit(1).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.CaseTruth{}, fmt.Errorf("select metadata carrier: %w", err)
	}
	if err == nil {
		secret, err := domain.DecodeSecret(carrier.Data["UserComment"])
		if err != nil {
			return domain.CaseTruth{}, fmt.Errorf("decode case secret: %w", err)
		}
		truth.Secret = secret
	}
	return truth, nil
}
